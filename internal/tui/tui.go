// Package tui is the interactive front end: pick an audio file, follow its
// progress, then read and export the result.
package tui

import (
	"context"
	"strings"

	"github.com/alkime/recap/internal/lifecycle"
	"github.com/alkime/recap/internal/tui/components/phases"
	"github.com/alkime/recap/internal/tui/style"
	"github.com/alkime/recap/internal/tui/workflow"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Config wires the TUI to a controller.
type Config struct {
	Ctx        context.Context
	Controller *lifecycle.Controller
	// Snapshots is a subscriber of the controller feed. Optional.
	Snapshots <-chan lifecycle.Snapshot
	ExportDir string
	// InitialPath is submitted on start when set.
	InitialPath string
	// Cancel is called on quit.
	Cancel context.CancelFunc
}

type model struct {
	config  Config
	keys    workflow.GlobalKeyMap
	session *workflow.Session
	phases  phases.Model
}

// New creates the root model.
func New(config Config) tea.Model {
	ctx := config.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	session := &workflow.Session{
		Ctx:        ctx,
		Controller: config.Controller,
		Snapshots:  config.Snapshots,
		ExportDir:  config.ExportDir,
		Width:      80,
		Height:     24,
	}

	return &model{
		config:  config,
		keys:    workflow.DefaultGlobalKeyMap(),
		session: session,
		phases: phases.New([]phases.Phase{
			phases.NewPhase("Select file", workflow.NewSelectPhase(session, config.InitialPath)),
			phases.NewPhase("Processing", workflow.NewProcessingPhase(session)),
			phases.NewPhase("Result", workflow.NewResultPhase(session)),
		}),
	}
}

// Init starts the first phase and the snapshot listener.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.phases.Init(), m.session.ListenCmd())
}

// Update handles all messages.
func (m *model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	var listen tea.Cmd

	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.session.Width = msg.Width
		m.session.Height = msg.Height

	case workflow.SnapshotMsg:
		listen = m.session.ListenCmd()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.session.Controller.Reset()
			if m.config.Cancel != nil {
				m.config.Cancel()
			}

			return m, tea.Quit
		}
	}

	updated, cmd := m.phases.Update(teaMsg)
	m.phases = updated.(phases.Model) //nolint:forcetypeassert // phases.Model always returns phases.Model

	return m, tea.Batch(cmd, listen)
}

// View renders the current phase.
func (m *model) View() string {
	var sb strings.Builder

	sb.WriteString(style.Subtitle.Render("Recap · " + m.phases.CurrentPhaseName()))
	sb.WriteString("\n\n")
	sb.WriteString(m.phases.View())

	return sb.String()
}

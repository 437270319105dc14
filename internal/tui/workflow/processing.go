package workflow

import (
	"strings"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/lifecycle"
	"github.com/alkime/recap/internal/tui/components/phases"
	"github.com/alkime/recap/internal/tui/components/stagestatus"
	"github.com/alkime/recap/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type processingKeyMap struct {
	Cancel key.Binding
	Retry  key.Binding
	New    key.Binding
}

func defaultProcessingKeyMap() processingKeyMap {
	return processingKeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "choose another file"),
		),
	}
}

// jobDoneMsg is sent when Upload returns. attempt identifies the run that
// started it; a cancelled run can finish after a newer one has started.
type jobDoneMsg struct {
	attempt int
	snap    lifecycle.Snapshot
	err     error
}

type processingPhase struct {
	session *Session
	status  stagestatus.Model
	keys    processingKeyMap
	running bool
	failure string
	attempt int
}

// NewProcessingPhase runs the selected file through the controller and
// shows live progress.
func NewProcessingPhase(session *Session) tea.Model {
	return &processingPhase{
		session: session,
		keys:    defaultProcessingKeyMap(),
	}
}

func (pp *processingPhase) Init() tea.Cmd {
	pp.status = stagestatus.New(spinner.Dot, pp.session.File.Name, "esc: cancel")
	pp.running = true
	pp.failure = ""
	pp.attempt++

	return tea.Batch(pp.status.Init(), pp.uploadCmd())
}

func (pp *processingPhase) uploadCmd() tea.Cmd {
	ctrl := pp.session.Controller
	ctx := pp.session.Ctx
	file := pp.session.File
	attempt := pp.attempt

	return func() tea.Msg {
		snap, err := ctrl.Upload(ctx, file)
		return jobDoneMsg{attempt: attempt, snap: snap, err: err}
	}
}

func (pp *processingPhase) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case SnapshotMsg:
		// Snapshots may trail the job result; only running stages move the bar.
		if pp.running && msg.Stage.Running() {
			pp.status = pp.status.Set(msg.Stage, msg.Progress)
		}
		return pp, nil

	case jobDoneMsg:
		if msg.attempt != pp.attempt || !pp.running {
			return pp, nil
		}

		pp.running = false
		pp.session.Last = msg.snap

		switch {
		case msg.err == nil:
			return pp, phases.NextPhaseCmd
		case msg.snap.Stage == domain.StageIdle:
			// Reset already sent us back to the start.
			return pp, nil
		default:
			pp.failure = msg.snap.Error
			if pp.failure == "" {
				pp.failure = domain.UserMessage(msg.err)
			}
			return pp, nil
		}

	case tea.KeyMsg:
		return pp.handleKey(msg)
	}

	if !pp.running {
		return pp, nil
	}

	var cmd tea.Cmd
	pp.status, cmd = pp.status.Update(teaMsg)

	return pp, cmd
}

func (pp *processingPhase) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case pp.running && key.Matches(msg, pp.keys.Cancel):
		pp.running = false
		pp.session.Controller.Reset()
		return pp, phases.RestartCmd

	case pp.failure != "" && key.Matches(msg, pp.keys.Retry):
		return pp, pp.Init()

	case pp.failure != "" && key.Matches(msg, pp.keys.New):
		pp.session.Controller.Reset()
		return pp, phases.RestartCmd
	}

	return pp, nil
}

func (pp *processingPhase) View() string {
	if pp.failure == "" {
		return pp.status.View() + "\n" + renderGlobalKeyHelp()
	}

	var sb strings.Builder

	sb.WriteString(style.Error.Render("✗ Processing failed"))
	sb.WriteString("\n\n")

	sb.WriteString(style.Muted.Render(pp.session.File.Name))
	sb.WriteString("\n\n")

	sb.WriteString(pp.failure)
	sb.WriteString("\n\n")

	sb.WriteString(renderKeyHelp(pp.keys.Retry, "  "))
	sb.WriteString(renderKeyHelp(pp.keys.New, "\n"))
	sb.WriteString(renderGlobalKeyHelp())

	return sb.String()
}

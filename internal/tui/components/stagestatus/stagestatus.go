// Package stagestatus renders the progress of a processing job.
package stagestatus

import (
	"strings"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/tui/style"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// stages are the running stages in display order.
var stages = []domain.Stage{
	domain.StageUploading,
	domain.StageTranscribing,
	domain.StageSummarizing,
}

// Model displays a spinner, the current stage, a progress bar and the
// stage checklist.
type Model struct {
	Spinner  spinner.Model
	Bar      progress.Model
	FileName string
	Stage    domain.Stage
	Progress int
	Help     string
}

// New creates a status view for fileName.
func New(s spinner.Spinner, fileName, help string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner:  sp,
		Bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		FileName: fileName,
		Stage:    domain.StageUploading,
		Help:     help,
	}
}

// Init returns the initial command for the spinner.
func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Set records the latest stage and progress.
func (m Model) Set(stage domain.Stage, pct int) Model {
	m.Stage = stage
	m.Progress = pct
	return m
}

// Update handles spinner tick messages.
func (m Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	if tickMsg, ok := teaMsg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(tickMsg)

		return m, cmd
	}

	return m, nil
}

// View renders the status.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.Spinner.View())
	sb.WriteString(" ")
	sb.WriteString(style.Stage(m.Stage).Render(m.Stage.String() + "..."))
	sb.WriteString("\n\n")

	sb.WriteString(style.Muted.Render(m.FileName))
	sb.WriteString("\n\n")

	sb.WriteString(m.Bar.ViewAs(float64(m.Progress) / 100))
	sb.WriteString("\n\n")

	for _, s := range stages {
		sb.WriteString(m.checklistLine(s))
		sb.WriteString("\n")
	}

	if m.Help != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Help.Render(m.Help))
	}

	return sb.String()
}

func (m Model) checklistLine(s domain.Stage) string {
	switch {
	case s.Rank() < m.Stage.Rank():
		return style.Success.Render("[x] " + s.String())
	case s == m.Stage:
		return style.Bullet.Render("[>] ") + style.Label.Render(s.String())
	default:
		return style.Muted.Render("[ ] " + s.String())
	}
}

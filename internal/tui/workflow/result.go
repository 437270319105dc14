package workflow

import (
	"strings"

	"github.com/alkime/recap/internal/export"
	"github.com/alkime/recap/internal/tui/components/phases"
	"github.com/alkime/recap/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 3
	footerHeight = 5
	minViewport  = 5
)

type resultKeyMap struct {
	Toggle     key.Binding
	ExportText key.Binding
	ExportPDF  key.Binding
	ExportDOCX key.Binding
	New        key.Binding
}

func defaultResultKeyMap() resultKeyMap {
	return resultKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "summary/transcription"),
		),
		ExportText: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "save .txt"),
		),
		ExportPDF: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "save .pdf"),
		),
		ExportDOCX: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "save .docx"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new file"),
		),
	}
}

type resultPhase struct {
	session           *Session
	keys              resultKeyMap
	viewport          viewport.Model
	showTranscription bool
	notice            string
	noticeErr         bool
	ready             bool
}

// NewResultPhase shows the completed summary and transcription and
// exports them on request.
func NewResultPhase(session *Session) tea.Model {
	return &resultPhase{
		session: session,
		keys:    defaultResultKeyMap(),
	}
}

func (rp *resultPhase) Init() tea.Cmd {
	rp.showTranscription = false
	rp.notice = ""
	rp.noticeErr = false
	rp.ready = false

	if rp.session.Width > 0 && rp.session.Height > 0 {
		rp.resize(rp.session.Width, rp.session.Height)
		return nil
	}

	return tea.WindowSize()
}

func (rp *resultPhase) resize(width, height int) {
	h := max(height-headerHeight-footerHeight, minViewport)
	w := max(width-4, 10)

	if !rp.ready {
		rp.viewport = viewport.New(w, h)
	} else {
		rp.viewport.Width = w
		rp.viewport.Height = h
	}
	rp.ready = true
	rp.refresh()
}

func (rp *resultPhase) refresh() {
	text := rp.session.Last.Summary
	if rp.showTranscription {
		text = rp.session.Last.Transcription
	}

	rp.viewport.SetContent(lipgloss.NewStyle().Width(rp.viewport.Width).Render(text))
	rp.viewport.GotoTop()
}

func (rp *resultPhase) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		rp.resize(msg.Width, msg.Height)
		return rp, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, rp.keys.Toggle):
			rp.showTranscription = !rp.showTranscription
			rp.refresh()
			return rp, nil
		case key.Matches(msg, rp.keys.ExportText):
			rp.save(export.FormatText)
			return rp, nil
		case key.Matches(msg, rp.keys.ExportPDF):
			rp.save(export.FormatPDF)
			return rp, nil
		case key.Matches(msg, rp.keys.ExportDOCX):
			rp.save(export.FormatDOCX)
			return rp, nil
		case key.Matches(msg, rp.keys.New):
			rp.session.Controller.Reset()
			return rp, phases.RestartCmd
		}
	}

	if !rp.ready {
		return rp, nil
	}

	var cmd tea.Cmd
	rp.viewport, cmd = rp.viewport.Update(teaMsg)

	return rp, cmd
}

func (rp *resultPhase) save(format export.Format) {
	artifact, err := export.FromSnapshot(rp.session.Last, format)
	if err != nil {
		rp.notice, rp.noticeErr = err.Error(), true
		return
	}

	path, err := artifact.WriteTo(rp.session.ExportDir)
	if err != nil {
		rp.notice, rp.noticeErr = err.Error(), true
		return
	}

	rp.notice, rp.noticeErr = "Saved: "+path, false
}

func (rp *resultPhase) View() string {
	if !rp.ready {
		return "Initializing..."
	}

	var sb strings.Builder

	title := "=== Summary ==="
	if rp.showTranscription {
		title = "=== Transcription ==="
	}
	sb.WriteString(style.Title.Render(title))
	sb.WriteString("  ")
	sb.WriteString(style.Muted.Render(rp.session.Last.FileName))
	sb.WriteString("\n\n")

	sb.WriteString(style.Viewport.Render(rp.viewport.View()))
	sb.WriteString("\n\n")

	if rp.notice != "" {
		if rp.noticeErr {
			sb.WriteString(style.Warning.Render(rp.notice))
		} else {
			sb.WriteString(style.Success.Render(rp.notice))
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString(renderKeyHelp(rp.keys.Toggle, "  "))
	sb.WriteString(renderKeyHelp(rp.keys.ExportText, "  "))
	sb.WriteString(renderKeyHelp(rp.keys.ExportPDF, "  "))
	sb.WriteString(renderKeyHelp(rp.keys.ExportDOCX, "\n"))
	sb.WriteString(renderKeyHelp(rp.keys.New, "  "))
	sb.WriteString(renderGlobalKeyHelp())

	return sb.String()
}

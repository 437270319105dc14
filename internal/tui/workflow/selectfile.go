package workflow

import (
	"strings"

	"github.com/alkime/recap/internal/tui/components/phases"
	"github.com/alkime/recap/internal/tui/style"
	"github.com/alkime/recap/internal/upload"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type selectKeyMap struct {
	Submit key.Binding
}

func defaultSelectKeyMap() selectKeyMap {
	return selectKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "process file"),
		),
	}
}

type fileAcceptedMsg struct {
	file upload.Candidate
}

type fileRejectedMsg struct {
	err error
}

type selectPhase struct {
	session *Session
	input   textinput.Model
	keys    selectKeyMap
	initial string
	err     string
}

// NewSelectPhase asks for an audio file path. A non-empty initialPath is
// submitted immediately the first time the phase starts.
func NewSelectPhase(session *Session, initialPath string) tea.Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/recording.mp3"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 60

	return &selectPhase{
		session: session,
		input:   ti,
		keys:    defaultSelectKeyMap(),
		initial: initialPath,
	}
}

func (sp *selectPhase) Init() tea.Cmd {
	sp.err = ""
	sp.input.Reset()
	focus := sp.input.Focus()

	if sp.initial != "" {
		path := sp.initial
		sp.initial = ""
		sp.input.SetValue(path)

		return validateCmd(path)
	}

	return tea.Batch(focus, textinput.Blink)
}

func (sp *selectPhase) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case fileAcceptedMsg:
		sp.session.File = msg.file
		return sp, phases.NextPhaseCmd

	case fileRejectedMsg:
		sp.err = msg.err.Error()
		return sp, nil

	case tea.KeyMsg:
		if key.Matches(msg, sp.keys.Submit) {
			path := strings.TrimSpace(sp.input.Value())
			if path == "" {
				sp.err = (&upload.ValidationError{Reason: upload.ReasonNoFile}).Error()
				return sp, nil
			}

			return sp, validateCmd(path)
		}
	}

	var cmd tea.Cmd
	sp.input, cmd = sp.input.Update(teaMsg)

	return sp, cmd
}

func (sp *selectPhase) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Choose an audio file"))
	sb.WriteString("\n\n")

	sb.WriteString(style.Subtitle.Render("WAV, MP3, M4A or OGG, up to 25MB"))
	sb.WriteString("\n\n")

	sb.WriteString(sp.input.View())
	sb.WriteString("\n\n")

	if sp.err != "" {
		sb.WriteString(style.Error.Render("✗ " + sp.err))
		sb.WriteString("\n\n")
	}

	sb.WriteString(renderKeyHelp(sp.keys.Submit, "\n"))
	sb.WriteString(renderGlobalKeyHelp())

	return sb.String()
}

// validateCmd builds and checks a candidate off the UI goroutine.
func validateCmd(path string) tea.Cmd {
	return func() tea.Msg {
		candidate, err := upload.FromFile(path)
		if err != nil {
			return fileRejectedMsg{err: err}
		}

		file, err := upload.Validate(candidate)
		if err != nil {
			return fileRejectedMsg{err: err}
		}

		return fileAcceptedMsg{file: file}
	}
}

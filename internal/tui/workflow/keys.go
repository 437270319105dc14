package workflow

import (
	"strings"

	"github.com/alkime/recap/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
)

// GlobalKeyMap holds bindings handled by the root model.
type GlobalKeyMap struct {
	Quit key.Binding
}

// DefaultGlobalKeyMap returns the root bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func renderKeyHelp(keyBinding key.Binding, suffix ...string) string {
	s := style.Help.Render("[") + style.Key.Render(keyBinding.Help().Key) +
		style.Help.Render("] ") +
		style.Help.Render(keyBinding.Help().Desc)

	s += strings.Join(suffix, "")

	return s
}

func renderGlobalKeyHelp() string {
	return renderKeyHelp(DefaultGlobalKeyMap().Quit, "\n")
}

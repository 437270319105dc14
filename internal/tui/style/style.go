// Package style holds the lipgloss styles shared by recap's terminal output.
package style

import (
	"github.com/alkime/recap/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Palette (256-color codes).
const (
	pink   = lipgloss.Color("205")
	grey   = lipgloss.Color("241")
	silver = lipgloss.Color("245")
	white  = lipgloss.Color("255")
	green  = lipgloss.Color("42")
	red    = lipgloss.Color("196")
	amber  = lipgloss.Color("214")
	indigo = lipgloss.Color("62")
	blue   = lipgloss.Color("63")
)

// Styles are values; sharing them across goroutines is fine.
var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(pink)
	Subtitle = lipgloss.NewStyle().Foreground(grey)
	Label    = lipgloss.NewStyle().Bold(true).Foreground(white)
	Muted    = lipgloss.NewStyle().Foreground(silver)
	Bullet   = lipgloss.NewStyle().Foreground(pink)

	Success = lipgloss.NewStyle().Foreground(green)
	Error   = lipgloss.NewStyle().Foreground(red)
	Warning = lipgloss.NewStyle().Foreground(amber)

	// Help and Key render "[key] description" hints.
	Help = lipgloss.NewStyle().Foreground(grey)
	Key  = lipgloss.NewStyle().Bold(true).Foreground(pink)

	// Viewport frames the summary and transcription text.
	Viewport = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(indigo).
			Padding(0, 1)

	// TableBorder colors the borders of CLI tables.
	TableBorder = lipgloss.NewStyle().Foreground(grey)
)

// Stage returns the style used to name a processing stage.
func Stage(s domain.Stage) lipgloss.Style {
	switch {
	case s == domain.StageCompleted:
		return Success
	case s == domain.StageFailed:
		return Error
	case s.Running():
		return lipgloss.NewStyle().Bold(true).Foreground(blue)
	default:
		return Muted
	}
}

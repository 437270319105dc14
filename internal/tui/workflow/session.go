// Package workflow holds the TUI phases: pick a file, watch it process,
// read and export the result.
package workflow

import (
	"context"

	"github.com/alkime/recap/internal/lifecycle"
	"github.com/alkime/recap/internal/upload"
	tea "github.com/charmbracelet/bubbletea"
)

// Session is shared by all phases of one TUI run.
type Session struct {
	Ctx        context.Context
	Controller *lifecycle.Controller
	// Snapshots delivers controller snapshots; nil disables live progress.
	Snapshots <-chan lifecycle.Snapshot
	ExportDir string

	// File is the accepted candidate, set by the select phase.
	File upload.Candidate
	// Last is the most recent snapshot seen.
	Last lifecycle.Snapshot
	// Width and Height are the last known terminal size.
	Width, Height int
}

// SnapshotMsg carries a controller snapshot into the program.
type SnapshotMsg lifecycle.Snapshot

// ListenCmd waits for the next snapshot. The receiver re-issues it after
// each message; it returns nil once the channel closes.
func (s *Session) ListenCmd() tea.Cmd {
	if s.Snapshots == nil {
		return nil
	}

	return func() tea.Msg {
		snap, ok := <-s.Snapshots
		if !ok {
			return nil
		}
		return SnapshotMsg(snap)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alkime/recap/internal/lifecycle"
	"github.com/alkime/recap/internal/logger"
	"github.com/alkime/recap/internal/tui"
	"github.com/alkime/recap/internal/workdir"
	"github.com/alkime/recap/pkg/channels"
	tea "github.com/charmbracelet/bubbletea"
)

// TUICmd is the default command that runs the TUI.
type TUICmd struct {
	File      string `arg:"" optional:"" help:"Audio file to process right away"`
	ExportDir string `flag:"" optional:"" name:"export-dir" help:"Export directory (default: ~/Documents/Alkime/Recap/exports)"`
}

// Run executes the TUI command.
func (c *TUICmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	if err := workdir.Prep(); err != nil {
		return fmt.Errorf("failed to prepare working directory: %w", err)
	}

	if c.ExportDir == "" {
		if c.ExportDir, err = workdir.ExportsPath(); err != nil {
			return fmt.Errorf("failed to determine export directory: %w", err)
		}
	}

	// The terminal belongs to the TUI, so logs go to a file.
	logPath, err := workdir.LogPath()
	if err != nil {
		return fmt.Errorf("failed to determine log path: %w", err)
	}

	l, closer, err := logger.SetupFileLogger(logPath, logger.Level(cfg))
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := channels.NewBroadcaster[lifecycle.Snapshot]()
	snapshots := make(chan lifecycle.Snapshot, 64)
	if err := b.SubscribeWithTimeout(snapshots, 50*time.Millisecond); err != nil {
		return fmt.Errorf("failed to subscribe to progress: %w", err)
	}

	feedCtx, stopFeed := context.WithCancel(context.Background())
	feed, err := b.Run(feedCtx)
	if err != nil {
		stopFeed()
		return fmt.Errorf("failed to start progress feed: %w", err)
	}

	ctrl, err := newController(cfg, l, feed)
	if err != nil {
		stopFeed()
		return err
	}

	l.Info("Starting TUI", "backend", cfg.Backend, "export_dir", c.ExportDir, "file", c.File)

	p := tea.NewProgram(tui.New(tui.Config{
		Ctx:         ctx,
		Controller:  ctrl,
		Snapshots:   snapshots,
		ExportDir:   c.ExportDir,
		InitialPath: c.File,
		Cancel:      cancel,
	}), tea.WithAltScreen())

	_, runErr := p.Run()

	// Quit reset the controller, so nothing publishes after this point.
	stopFeed()
	b.Wait()
	logFeedStats(l, b)

	if runErr != nil {
		return fmt.Errorf("failed to start TUI: %w", runErr)
	}

	slog.Debug("TUI exited")
	fmt.Println("\nfinished. bye!")

	return nil
}

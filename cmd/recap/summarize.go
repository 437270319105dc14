package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/export"
	"github.com/alkime/recap/internal/lifecycle"
	"github.com/alkime/recap/internal/logger"
	"github.com/alkime/recap/internal/upload"
	"github.com/alkime/recap/pkg/channels"
)

// SummarizeCmd processes one file without the TUI.
type SummarizeCmd struct {
	File      string `arg:"" required:"" help:"Path to an audio file"`
	Format    string `flag:"" default:"txt" help:"Export format: txt, pdf or docx"`
	OutputDir string `flag:"" optional:"" name:"output-dir" help:"Export directory (default: next to the audio file)"`
	Print     bool   `flag:"" help:"Print the summary and transcription to stdout"`
}

// Run executes the summarize command.
func (c *SummarizeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	l := logger.SetupCLILogger(os.Stderr, logger.Level(cfg))

	candidate, err := upload.FromFile(c.File)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := channels.NewBroadcaster[lifecycle.Snapshot]()
	progress := make(chan lifecycle.Snapshot, 64)
	if err := b.SubscribeWithTimeout(progress, time.Second); err != nil {
		return fmt.Errorf("failed to subscribe to progress: %w", err)
	}

	feedCtx, stopFeed := context.WithCancel(context.Background())
	feed, err := b.Run(feedCtx)
	if err != nil {
		stopFeed()
		return fmt.Errorf("failed to start progress feed: %w", err)
	}

	var wg sync.WaitGroup
	wg.Go(func() {
		reportProgress(l, progress)
	})

	shutdown := func() {
		stopFeed()
		b.Wait()
		close(progress)
		wg.Wait()
		logFeedStats(l, b)
	}

	ctrl, err := newController(cfg, l, feed)
	if err != nil {
		shutdown()
		return err
	}

	snap, procErr := ctrl.Upload(ctx, candidate)
	shutdown()

	if procErr != nil {
		return errors.New(domain.UserMessage(procErr))
	}

	artifact, err := export.FromSnapshot(snap, format)
	if err != nil {
		return err
	}

	outDir := c.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(c.File)
	}

	path, err := artifact.WriteTo(outDir)
	if err != nil {
		return err
	}

	l.Info("Summary saved", "path", path)

	if c.Print {
		fmt.Print(export.Text(domain.Result{Summary: snap.Summary, Transcription: snap.Transcription}))
	}

	return nil
}

// logFeedStats reports snapshots a subscriber missed.
func logFeedStats(l *slog.Logger, b *channels.Broadcaster[lifecycle.Snapshot]) {
	for i, st := range b.Stats() {
		if st.Dropped > 0 || st.Inactive {
			l.Debug("Progress feed subscriber fell behind", "subscriber", i, "dropped", st.Dropped, "inactive", st.Inactive)
		}
	}
}

// reportProgress logs each change of stage or progress until snapshots closes.
func reportProgress(l *slog.Logger, snapshots <-chan lifecycle.Snapshot) {
	var last lifecycle.Snapshot
	for snap := range snapshots {
		if snap.Stage == last.Stage && snap.Progress == last.Progress {
			continue
		}
		last = snap

		if snap.Stage.Running() {
			l.Info("Processing", "stage", snap.Stage, "progress", snap.Progress)
		}
	}
}

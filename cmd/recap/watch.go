package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alkime/recap/internal/logger"
	"github.com/alkime/recap/internal/watch"
)

// WatchCmd summarizes audio files dropped into a directory.
type WatchCmd struct {
	Dir       string        `arg:"" required:"" type:"existingdir" help:"Directory to watch"`
	OutputDir string        `flag:"" optional:"" name:"output-dir" help:"Export directory (default: the watched directory)"`
	Settle    time.Duration `flag:"" default:"500ms" help:"Wait after a file appears before reading it"`
}

// Run executes the watch command.
func (c *WatchCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	l := logger.SetupCLILogger(os.Stderr, logger.Level(cfg))

	ctrl, err := newController(cfg, l, nil)
	if err != nil {
		return err
	}

	w, err := watch.New(c.Dir, watch.Summarize(ctrl, c.OutputDir, l),
		watch.WithSettle(c.Settle),
		watch.WithLogger(l),
	)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", c.Dir, err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

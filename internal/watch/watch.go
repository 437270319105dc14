// Package watch processes audio files as they appear in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alkime/recap/internal/upload"
	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a new file is left alone before it is read.
const DefaultSettle = 500 * time.Millisecond

// Handler processes one new file.
type Handler func(ctx context.Context, path string) error

// Watcher feeds new audio files in a directory to a Handler one at a time.
type Watcher struct {
	dir     string
	handler Handler
	logger  *slog.Logger
	settle  time.Duration
	queue   int
	watcher *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle sets the delay between a file appearing and being processed.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithQueueSize bounds how many detected files may wait for processing.
func WithQueueSize(n int) Option {
	return func(w *Watcher) {
		w.queue = n
	}
}

// New starts watching dir. Call Run to process events and Close when done.
func New(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	w := &Watcher{
		dir:     dir,
		handler: handler,
		logger:  slog.Default(),
		settle:  DefaultSettle,
		queue:   16,
		watcher: fw,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Run processes new audio files until ctx is cancelled. Files are handled
// sequentially in the order they appeared; a handler error is logged and
// does not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("Watching for audio files", "dir", w.dir, "formats", strings.Join(upload.AllowedExtensions, ","))

	pending := make(chan string, w.queue)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for path := range pending {
			if !w.wait(ctx) {
				continue
			}

			w.logger.Info("Processing new file", "path", path)
			if err := w.handler(ctx, path); err != nil {
				w.logger.Error("Failed to process file", "path", path, "error", err)
			}
		}
	}()

	defer func() {
		close(pending)
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("File watcher stopped", "dir", w.dir)
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}

			// Only process CREATE events
			if !event.Has(fsnotify.Create) {
				continue
			}

			if !isAudioFile(event.Name) {
				w.logger.Debug("Ignoring file", "path", event.Name)
				continue
			}

			select {
			case pending <- event.Name:
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// wait gives a new file time to be fully written. Returns false if ctx ends first.
func (w *Watcher) wait(ctx context.Context) bool {
	if w.settle <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(w.settle)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func isAudioFile(path string) bool {
	return slices.Contains(upload.AllowedExtensions, strings.ToLower(filepath.Ext(path)))
}

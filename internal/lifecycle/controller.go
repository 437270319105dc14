// Package lifecycle coordinates one processing job at a time, from accepted
// upload to completed or failed result.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/pipeline"
	"github.com/alkime/recap/internal/upload"
	"github.com/alkime/recap/pkg/channels"
	"github.com/google/uuid"
)

// DefaultFeedTimeout bounds how long publishing one snapshot may block.
const DefaultFeedTimeout = 100 * time.Millisecond

// Controller owns the processing state. It is safe for concurrent use.
type Controller struct {
	processor   pipeline.Processor
	logger      *slog.Logger
	feed        chan<- Snapshot
	feedTimeout time.Duration
	newID       func() string

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithFeed publishes every snapshot to feed, in order.
func WithFeed(feed chan<- Snapshot) Option {
	return func(c *Controller) {
		c.feed = feed
	}
}

// WithFeedTimeout sets how long a snapshot send may block before it is dropped.
func WithFeedTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.feedTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIDGenerator overrides job id generation.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// NewController creates an idle controller that runs jobs on processor.
func NewController(processor pipeline.Processor, opts ...Option) *Controller {
	c := &Controller{
		processor:   processor,
		logger:      slog.Default(),
		feedTimeout: DefaultFeedTimeout,
		newID:       uuid.NewString,
		state:       Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return snapshotOf(c.state)
}

// State returns the current tagged state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Upload validates candidates, then runs the first accepted file to
// completion in the calling goroutine and returns the terminal snapshot.
//
// A rejected file returns the *upload.ValidationError and leaves the state
// untouched. A second upload while a job runs returns ErrJobInFlight. A job
// that ends in Failed returns the processing error with the failed snapshot.
// A job abandoned by Reset returns ErrJobCancelled with the current snapshot.
func (c *Controller) Upload(ctx context.Context, candidates ...upload.Candidate) (Snapshot, error) {
	file, err := upload.Validate(candidates...)
	if err != nil {
		c.logger.Info("Upload rejected", "error", err)
		return c.Snapshot(), err
	}

	jobID := c.newID()
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if err := c.apply(started{jobID: jobID, file: fileInfo(file)}); err != nil {
		snap := snapshotOf(c.state)
		c.mu.Unlock()
		return snap, err
	}
	c.cancel = cancel
	c.mu.Unlock()

	c.logger.Info("Job started", "job_id", jobID, "file", file.Name, "bytes", file.Size, "type", file.MIMEType)

	result, procErr := c.processor.Process(jobCtx, file, func(u domain.Update) {
		c.mu.Lock()
		defer c.mu.Unlock()

		if err := c.apply(progressed{jobID: jobID, update: u}); err != nil {
			c.logger.Debug("Progress dropped", "job_id", jobID, "stage", u.Stage, "progress", u.Progress, "reason", err)
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	var final action = succeeded{jobID: jobID, result: result}
	if procErr != nil {
		if errors.Is(procErr, context.Canceled) {
			procErr = ErrJobCancelled
		}
		final = failed{jobID: jobID, err: procErr}
	}

	if err := c.apply(final); err != nil {
		if errors.Is(err, ErrStaleJob) {
			c.logger.Info("Discarded result of cancelled job", "job_id", jobID)
			return snapshotOf(c.state), ErrJobCancelled
		}

		return snapshotOf(c.state), err
	}
	c.cancel = nil

	snap := snapshotOf(c.state)
	if procErr != nil {
		c.logger.Warn("Job failed", "job_id", jobID, "error", procErr)
		return snap, procErr
	}

	c.logger.Info("Job completed", "job_id", jobID,
		"summary_chars", len(result.Summary),
		"transcription_chars", len(result.Transcription))

	return snap, nil
}

// Reset returns to Idle from any state. An active job is cancelled and its
// late result is discarded.
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	// Reset is legal from every state.
	_ = c.apply(reset{})

	return snapshotOf(c.state)
}

// apply runs one transition and publishes the new snapshot. Callers hold mu.
func (c *Controller) apply(a action) error {
	next, err := transition(c.state, a)
	if err != nil {
		return err
	}

	c.state = next
	c.publish(snapshotOf(next))

	return nil
}

func (c *Controller) publish(snap Snapshot) {
	if c.feed == nil {
		return
	}

	if err := channels.SendWithTimeout(c.feed, snap, c.feedTimeout); err != nil {
		c.logger.Debug("Snapshot not delivered", "stage", snap.Stage, "progress", snap.Progress, "reason", err)
	}
}

func fileInfo(c upload.Candidate) FileInfo {
	return FileInfo{
		Name:     c.Name,
		Size:     c.Size,
		MIMEType: c.MIMEType,
	}
}

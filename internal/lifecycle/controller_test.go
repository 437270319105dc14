package lifecycle_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/lifecycle"
	"github.com/alkime/recap/internal/pipeline"
	"github.com/alkime/recap/internal/upload"
	"github.com/alkime/recap/pkg/channels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wavFile(size int64) upload.Candidate {
	return upload.NewCandidate("memo.wav", size, "audio/wav", func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("RIFF0000WAVE"))), nil
	})
}

func summarizeServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, err := r.FormFile(pipeline.FormField)
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

// blockingProcessor runs until released or cancelled.
type blockingProcessor struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingProcessor() *blockingProcessor {
	return &blockingProcessor{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (b *blockingProcessor) Process(
	ctx context.Context,
	_ upload.Candidate,
	report domain.ProgressFunc,
) (domain.Result, error) {
	report(domain.Update{Stage: domain.StageTranscribing, Progress: 10})
	b.started <- struct{}{}

	select {
	case <-ctx.Done():
		return domain.Result{}, ctx.Err()
	case <-b.release:
		return domain.Result{Summary: "late", Transcription: "late"}, nil
	}
}

func TestController_InitialState(t *testing.T) {
	c := lifecycle.NewController(pipeline.NewSimulated(0))

	assert.Equal(t, lifecycle.Snapshot{Stage: domain.StageIdle}, c.Snapshot())
	assert.Equal(t, lifecycle.Idle{}, c.State())
}

func TestController_ServiceSuccess(t *testing.T) {
	srv := summarizeServer(t, http.StatusOK, `{"summary":"S","transcription":"T"}`)
	c := lifecycle.NewController(pipeline.NewService(srv.URL))

	snap, err := c.Upload(context.Background(), wavFile(12))
	require.NoError(t, err)

	assert.Equal(t, domain.StageCompleted, snap.Stage)
	assert.Equal(t, 100, snap.Progress)
	assert.Equal(t, "S", snap.Summary)
	assert.Equal(t, "T", snap.Transcription)
	assert.Empty(t, snap.Error)
	assert.Equal(t, snap, c.Snapshot())
}

func TestController_ServiceFailure(t *testing.T) {
	srv := summarizeServer(t, http.StatusInternalServerError, `{"error":"Summarization failed: quota"}`)
	c := lifecycle.NewController(pipeline.NewService(srv.URL))

	snap, err := c.Upload(context.Background(), wavFile(12))

	var svcErr *domain.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)

	assert.Equal(t, domain.StageFailed, snap.Stage)
	assert.Zero(t, snap.Progress)
	assert.Equal(t, "Summarization failed: quota", snap.Error)
	assert.Empty(t, snap.Summary)
	assert.Empty(t, snap.Transcription)
}

func TestController_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := lifecycle.NewController(pipeline.NewService(url))
	snap, err := c.Upload(context.Background(), wavFile(12))

	require.Error(t, err)
	assert.Equal(t, domain.StageFailed, snap.Stage)
	assert.Equal(t, domain.NetworkFailureMessage, snap.Error)
}

func TestController_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		candidate  upload.Candidate
		wantReason upload.Reason
	}{
		{
			name:       "not audio",
			candidate:  upload.NewCandidate("notes.txt", 10, "text/plain", nil),
			wantReason: upload.ReasonNotAudio,
		},
		{
			name:       "too large",
			candidate:  upload.NewCandidate("long.mp3", upload.MaxSize+1, "audio/mpeg", nil),
			wantReason: upload.ReasonTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := make(chan lifecycle.Snapshot, 8)
			called := false
			c := lifecycle.NewController(pipeline.ProcessorFunc(
				func(context.Context, upload.Candidate, domain.ProgressFunc) (domain.Result, error) {
					called = true
					return domain.Result{}, nil
				},
			), lifecycle.WithFeed(feed))

			snap, err := c.Upload(context.Background(), tt.candidate)

			var vErr *upload.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantReason, vErr.Reason)

			assert.Equal(t, lifecycle.Snapshot{Stage: domain.StageIdle}, snap)
			assert.Equal(t, lifecycle.Idle{}, c.State())
			assert.False(t, called)
			assert.Empty(t, feed)
		})
	}
}

func TestController_RejectionKeepsPreviousResult(t *testing.T) {
	c := lifecycle.NewController(pipeline.NewSimulated(0))

	done, err := c.Upload(context.Background(), wavFile(12))
	require.NoError(t, err)

	snap, err := c.Upload(context.Background(), upload.NewCandidate("x.pdf", 10, "application/pdf", nil))
	require.Error(t, err)
	assert.Equal(t, done, snap)
}

func TestController_Reset(t *testing.T) {
	initial := lifecycle.Snapshot{Stage: domain.StageIdle}

	t.Run("from completed", func(t *testing.T) {
		c := lifecycle.NewController(pipeline.NewSimulated(0))
		_, err := c.Upload(context.Background(), wavFile(12))
		require.NoError(t, err)

		assert.Equal(t, initial, c.Reset())
		assert.Equal(t, lifecycle.Idle{}, c.State())
	})

	t.Run("from failed", func(t *testing.T) {
		srv := summarizeServer(t, http.StatusInternalServerError, `{"error":"x"}`)
		c := lifecycle.NewController(pipeline.NewService(srv.URL))
		_, err := c.Upload(context.Background(), wavFile(12))
		require.Error(t, err)

		assert.Equal(t, initial, c.Reset())
	})

	t.Run("from idle", func(t *testing.T) {
		c := lifecycle.NewController(pipeline.NewSimulated(0))
		assert.Equal(t, initial, c.Reset())
	})
}

func TestController_SimulatedFeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	b := channels.NewBroadcaster[lifecycle.Snapshot]()
	sub := make(chan lifecycle.Snapshot, 64)
	require.NoError(t, b.SubscribeWithTimeout(sub, time.Second))
	feed, err := b.Run(ctx)
	require.NoError(t, err)

	c := lifecycle.NewController(
		pipeline.NewSimulated(0),
		lifecycle.WithFeed(feed),
		lifecycle.WithFeedTimeout(time.Second),
		lifecycle.WithIDGenerator(func() string { return "job-42" }),
	)

	final, err := c.Upload(context.Background(), wavFile(12))
	require.NoError(t, err)

	cancel()
	b.Wait()
	close(sub)
	snaps := channels.ReceiveAll(sub, 10*time.Millisecond, 0)

	// started + 22 progress steps + completed
	require.Len(t, snaps, 24)
	assert.Equal(t, final, snaps[len(snaps)-1])
	assert.Equal(t, domain.StageUploading, snaps[0].Stage)

	for i, s := range snaps {
		assert.Equal(t, "job-42", s.JobID)
		assert.Equal(t, "memo.wav", s.FileName)
		if i == 0 {
			continue
		}

		prev := snaps[i-1]
		assert.GreaterOrEqual(t, s.Progress, prev.Progress, "progress must not decrease")
		if s.Stage.Running() {
			assert.GreaterOrEqual(t, s.Stage.Rank(), prev.Stage.Rank(), "stage must not go back")
			assert.Less(t, s.Progress, 100+boolInt(s.Stage == domain.StageSummarizing))
		}
		if s.Stage == domain.StageTranscribing {
			assert.LessOrEqual(t, s.Progress, 50)
		}
		if s.Stage == domain.StageSummarizing {
			assert.GreaterOrEqual(t, s.Progress, 50)
		}
	}

	assert.Equal(t, domain.StageCompleted, final.Stage)
	assert.Equal(t, pipeline.SampleSummary, final.Summary)
	assert.Equal(t, pipeline.SampleTranscription, final.Transcription)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestController_SingleFlight(t *testing.T) {
	proc := newBlockingProcessor()
	c := lifecycle.NewController(proc)

	done := make(chan error, 1)
	go func() {
		_, err := c.Upload(context.Background(), wavFile(12))
		done <- err
	}()
	<-proc.started

	snap, err := c.Upload(context.Background(), wavFile(12))
	require.ErrorIs(t, err, lifecycle.ErrJobInFlight)
	assert.Equal(t, domain.StageTranscribing, snap.Stage)
	assert.Equal(t, 10, snap.Progress)

	close(proc.release)
	require.NoError(t, <-done)
	assert.Equal(t, domain.StageCompleted, c.Snapshot().Stage)
}

func TestController_ResetCancelsActiveJob(t *testing.T) {
	proc := newBlockingProcessor()
	c := lifecycle.NewController(proc)

	type outcome struct {
		snap lifecycle.Snapshot
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		snap, err := c.Upload(context.Background(), wavFile(12))
		done <- outcome{snap, err}
	}()
	<-proc.started

	assert.Equal(t, lifecycle.Snapshot{Stage: domain.StageIdle}, c.Reset())

	got := <-done
	require.ErrorIs(t, got.err, lifecycle.ErrJobCancelled)
	assert.Equal(t, domain.StageIdle, got.snap.Stage)
	assert.Equal(t, lifecycle.Idle{}, c.State())
}

func TestController_CallerCancellationFails(t *testing.T) {
	proc := newBlockingProcessor()
	c := lifecycle.NewController(proc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Upload(ctx, wavFile(12))
		done <- err
	}()
	<-proc.started
	cancel()

	require.ErrorIs(t, <-done, lifecycle.ErrJobCancelled)

	snap := c.Snapshot()
	assert.Equal(t, domain.StageFailed, snap.Stage)
	assert.Zero(t, snap.Progress)
	assert.Equal(t, "processing cancelled", snap.Error)
}

func TestController_RetryAfterFailure(t *testing.T) {
	calls := 0
	c := lifecycle.NewController(pipeline.ProcessorFunc(
		func(context.Context, upload.Candidate, domain.ProgressFunc) (domain.Result, error) {
			calls++
			if calls == 1 {
				return domain.Result{}, &domain.ServiceError{StatusCode: http.StatusBadGateway}
			}
			return domain.Result{Summary: "S", Transcription: "T"}, nil
		},
	))

	snap, err := c.Upload(context.Background(), wavFile(12))
	require.Error(t, err)
	assert.Equal(t, "Bad Gateway", snap.Error)

	snap, err = c.Upload(context.Background(), wavFile(12))
	require.NoError(t, err)
	assert.Equal(t, domain.StageCompleted, snap.Stage)
	assert.Empty(t, snap.Error)
}

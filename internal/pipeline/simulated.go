package pipeline

import (
	"context"
	"time"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/upload"
)

const (
	// DefaultStepInterval is the pause before each simulated progress step.
	DefaultStepInterval = 300 * time.Millisecond
	// SimulatedStep is the progress increment of the simulated pipeline.
	SimulatedStep = 5
	// TranscribeCeiling is where transcription hands over to summarizing.
	TranscribeCeiling = 50
)

// SampleTranscription is the transcript produced by the simulated pipeline.
const SampleTranscription = "Welcome everyone, and thanks for joining the weekly planning call. " +
	"First on the agenda is the release scheduled for the end of the month. " +
	"The upload flow is finished and the team is now working on the history view. " +
	"We still need a decision on export formats, since plain text is ready but PDF and Word are not. " +
	"Support asked for clearer error messages when a file is too large or not an audio file. " +
	"Finally, we agreed to review the processing times next week once the new backend is deployed."

// SampleSummary is the summary produced by the simulated pipeline.
const SampleSummary = "The weekly planning call covered the upcoming end-of-month release. " +
	"Uploading is complete and the history view is in progress. " +
	"Export is limited to plain text until PDF and Word support is decided, " +
	"error messages for oversized or non-audio files will be improved, " +
	"and processing times will be reviewed after the new backend ships."

// Simulated is an offline Processor driven by timers. It is deterministic:
// transcribing covers 0..50, summarizing covers 50..100, and the result is
// always the sample text.
type Simulated struct {
	interval time.Duration
}

// NewSimulated creates a simulated processor that pauses interval before each
// step. A non-positive interval skips the pauses.
func NewSimulated(interval time.Duration) *Simulated {
	return &Simulated{interval: interval}
}

// Process implements Processor.
func (s *Simulated) Process(
	ctx context.Context,
	_ upload.Candidate,
	report domain.ProgressFunc,
) (domain.Result, error) {
	for progress := 0; progress <= TranscribeCeiling; progress += SimulatedStep {
		if err := s.pause(ctx); err != nil {
			return domain.Result{}, err
		}
		emit(report, domain.StageTranscribing, progress)
	}

	for progress := TranscribeCeiling; progress <= 100; progress += SimulatedStep {
		if err := s.pause(ctx); err != nil {
			return domain.Result{}, err
		}
		emit(report, domain.StageSummarizing, progress)
	}

	return domain.Result{
		Summary:       SampleSummary,
		Transcription: SampleTranscription,
	}, nil
}

func (s *Simulated) pause(ctx context.Context) error {
	if s.interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Package pipeline turns an accepted audio file into a summary and transcript.
package pipeline

import (
	"context"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/upload"
)

// Processor runs one job. Implementations report progress through report
// and must return once ctx is cancelled.
type Processor interface {
	Process(ctx context.Context, file upload.Candidate, report domain.ProgressFunc) (domain.Result, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, file upload.Candidate, report domain.ProgressFunc) (domain.Result, error)

// Process calls f.
func (f ProcessorFunc) Process(
	ctx context.Context,
	file upload.Candidate,
	report domain.ProgressFunc,
) (domain.Result, error) {
	return f(ctx, file, report)
}

func emit(report domain.ProgressFunc, stage domain.Stage, progress int) {
	if report != nil {
		report(domain.Update{Stage: stage, Progress: progress})
	}
}

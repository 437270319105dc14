package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/upload"
)

// Transcriber transcribes audio to text.
type Transcriber interface {
	TranscribeFile(ctx context.Context, audioFile io.Reader) (string, error)
}

// Summarizer condenses a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Direct is a Processor that calls a transcription API and then a
// summarization API itself, without the Summarization Service in between.
type Direct struct {
	transcriber Transcriber
	summarizer  Summarizer
}

// NewDirect creates a direct processor.
func NewDirect(transcriber Transcriber, summarizer Summarizer) *Direct {
	return &Direct{
		transcriber: transcriber,
		summarizer:  summarizer,
	}
}

// Process implements Processor. Progress is coarse: each API call moves the
// job halfway.
func (d *Direct) Process(
	ctx context.Context,
	file upload.Candidate,
	report domain.ProgressFunc,
) (domain.Result, error) {
	src, err := file.Open()
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer src.Close()

	emit(report, domain.StageTranscribing, 0)

	transcription, err := d.transcriber.TranscribeFile(ctx, src)
	if err != nil {
		return domain.Result{}, err
	}

	emit(report, domain.StageSummarizing, TranscribeCeiling)

	summary, err := d.summarizer.Summarize(ctx, transcription)
	if err != nil {
		return domain.Result{}, err
	}

	emit(report, domain.StageSummarizing, 100)

	return domain.Result{
		Summary:       summary,
		Transcription: transcription,
	}, nil
}

package content

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alkime/recap/internal/domain"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultTranscriptionModel is the Whisper model used when none is configured.
const DefaultTranscriptionModel = "whisper-1"

// Transcriber handles Whisper API transcription requests.
type Transcriber struct {
	apiKey string
	model  string
}

// NewTranscriber creates a new transcription client.
func NewTranscriber(apiKey, model string) *Transcriber {
	if model == "" {
		model = DefaultTranscriptionModel
	}

	return &Transcriber{
		apiKey: apiKey,
		model:  model,
	}
}

// TranscribeFile transcribes an audio file using Whisper API.
func (t *Transcriber) TranscribeFile(ctx context.Context, audioFile io.Reader) (string, error) {
	if t.apiKey == "" {
		return "", errors.New("API key required: set OPENAI_API_KEY or run 'recap config set-key openai'")
	}

	client := openai.NewClient(option.WithAPIKey(t.apiKey))

	params := openai.AudioTranscriptionNewParams{
		File:  audioFile,
		Model: openai.AudioModel(t.model),
	}

	resp, err := client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}

	return resp.Text, nil
}

// classify sorts SDK failures into the service/transport taxonomy.
func classify(err error) error {
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return &domain.ServiceError{
			StatusCode: openaiErr.StatusCode,
			Message:    fmt.Sprintf("Transcription failed: %s", openaiErr.Error()),
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return &domain.TransportError{Err: fmt.Errorf("transcription request: %w", err)}
}

package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alkime/recap/internal/domain"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultSummaryModel is the Claude model used when none is configured.
const DefaultSummaryModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Summarizer handles Anthropic API requests for transcript summaries.
type Summarizer struct {
	apiKey string
	model  anthropic.Model
	length Length
}

// NewSummarizer creates a new summary client.
func NewSummarizer(apiKey, model string, length Length) *Summarizer {
	if model == "" {
		model = DefaultSummaryModel
	}
	if length == "" {
		length = LengthMedium
	}

	return &Summarizer{
		apiKey: apiKey,
		model:  anthropic.Model(model),
		length: length,
	}
}

// Summarize condenses a transcript.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	if s.apiKey == "" {
		return "", errors.New("API key required: set ANTHROPIC_API_KEY or run 'recap config set-key anthropic'")
	}

	if strings.TrimSpace(transcript) == "" {
		return "", errors.New("transcript is empty")
	}

	client := anthropic.NewClient(option.WithAPIKey(s.apiKey))

	params := anthropic.MessageNewParams{
		Model:     s.model,
		MaxTokens: s.length.MaxTokens(),
		System: []anthropic.TextBlockParam{
			{Text: SummarySystemPrompt(s.length)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(transcript)),
		},
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &domain.ServiceError{
				StatusCode: apiErr.StatusCode,
				Message:    fmt.Sprintf("Summarization failed: %s", apiErr.Error()),
			}
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		return "", &domain.TransportError{Err: fmt.Errorf("summarization request: %w", err)}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}

	if sb.Len() == 0 {
		return "", errors.New("empty response from Anthropic API")
	}

	return strings.TrimSpace(sb.String()), nil
}

package pipeline

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alkime/recap/internal/config"
	"github.com/alkime/recap/internal/content"
)

// FromConfig builds the processor selected by cfg.Backend. API keys for the
// direct backend are read from cfg; callers resolve keychain fallbacks first.
func FromConfig(cfg *config.Config, logger *slog.Logger) (Processor, error) {
	switch cfg.Backend {
	case config.BackendSimulated:
		return NewSimulated(cfg.StepInterval), nil

	case config.BackendService:
		return NewService(
			cfg.ServiceURL,
			WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
			WithLogger(logger),
		), nil

	case config.BackendDirect:
		length, err := content.ParseLength(cfg.SummaryLength)
		if err != nil {
			return nil, err
		}

		return NewDirect(
			content.NewTranscriber(cfg.OpenAIAPIKey, cfg.TranscriptionModel),
			content.NewSummarizer(cfg.AnthropicAPIKey, cfg.SummaryModel, length),
		), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

package transcribe

import (
	"context"
	"fmt"

	"memoir/internal/config"
)

// Service converts an audio payload into text. Implementations must treat an
// empty transcript as a valid outcome; silence is not an error.
type Service interface {
	Transcribe(ctx context.Context, audio []byte, mediaType string) (string, error)
	Name() string
}

// NewFromConfig selects the configured backend. Provider selection is an
// explicit configuration choice so the caller always knows whether real
// speech-to-text is wired in.
func NewFromConfig(cfg *config.Config) (Service, error) {
	switch cfg.Transcription.Provider {
	case "openai":
		return NewOpenAI(Config{
			APIKey:         cfg.Transcription.APIKey,
			BaseURL:        cfg.Transcription.BaseURL,
			Model:          cfg.Transcription.Model,
			TimeoutSeconds: cfg.Transcription.TimeoutSeconds,
		}), nil
	case "simulated":
		return NewSimulated(), nil
	default:
		return nil, fmt.Errorf("transcription provider: unsupported value %q", cfg.Transcription.Provider)
	}
}

// Package translate translates subtitle sentences in rate-limited batches and
// keeps a per-show translation cache.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/japaniel/animedeck/pkg/config"
)

const (
	// FailedMarker replaces a sentence that still failed after bisection.
	FailedMarker = "[Translation Failed]"
	// Unavailable is shown for a sentence that was never translated.
	Unavailable = "[Unavailable]"
)

// ErrLineMismatch means a batch came back with a different number of lines.
var ErrLineMismatch = errors.New("translate: line count mismatch")

// Translator translates a block of text. Line breaks in the input must be
// preserved in the output.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// New builds the backend selected by cfg.Provider. It returns nil, nil for
// provider "none".
func New(cfg config.TranslateConfig, logger *slog.Logger) (Translator, error) {
	log := logger.With("component", "translate", "provider", cfg.Provider)
	switch cfg.Provider {
	case "google", "":
		return NewGoogle(cfg.BaseURL, cfg.Source, cfg.Target, &http.Client{Timeout: cfg.Timeout}, log), nil
	case "anthropic":
		return NewAnthropic(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout, log), nil
	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout, log), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("translate: unknown provider %q", cfg.Provider)
	}
}

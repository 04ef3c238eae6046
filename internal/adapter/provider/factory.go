package provider

import (
	"fmt"
	"log/slog"
	"net/http"

	"social-sprout/internal/config/configs"
	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// NewImageProvider builds the image provider selected by cfg.Image.
func NewImageProvider(cfg configs.Provider, logger *slog.Logger) (port.ImageProvider, error) {
	switch cfg.Image {
	case "", "stub":
		return StubImageProvider{Latency: cfg.StubImageLatency}, nil
	case "freepik":
		return NewFreepikImageProvider(FreepikConfig{
			APIKey:       cfg.FreepikAPIKey,
			BaseURL:      cfg.FreepikBaseURL.String(),
			PollInterval: cfg.PollInterval,
			MaxAttempts:  cfg.PollMaxAttempts,
			HTTPClient:   &http.Client{Timeout: cfg.RequestTimeout},
		}, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown image provider %q", port.ErrProviderConfig, cfg.Image)
	}
}

// NewTextProvider builds the text provider selected by cfg.Text.
func NewTextProvider(cfg configs.Provider) (port.TextProvider, error) {
	switch cfg.Text {
	case "", "stub":
		return StubTextProvider{Latency: cfg.StubTextLatency}, nil
	case "gemini":
		return NewGeminiTextProvider(cfg.GeminiAPIKey, cfg.GeminiModel, ""), nil
	default:
		return nil, fmt.Errorf("%w: unknown text provider %q", port.ErrProviderConfig, cfg.Text)
	}
}

// NewPaywall builds the paywall used by the quote payment gate.
func NewPaywall(cfg configs.Payment) *X402Paywall {
	return NewX402Paywall(cfg.ReceiverAddress, cfg.ChainID)
}

// Currency returns the configured settlement currency, USDC when unset or
// unknown.
func Currency(cfg configs.Payment) domain.Currency {
	switch c := domain.Currency(cfg.Currency); c {
	case domain.CurrencyUSDC, domain.CurrencyETH, domain.CurrencyEURC:
		return c
	default:
		return domain.CurrencyUSDC
	}
}

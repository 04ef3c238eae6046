package configs

import (
	"net/url"
	"time"
)

// Provider selects and configures the content generation backends.
type Provider struct {
	// Image is "stub" or "freepik".
	Image string `env:"IMAGE" envDefault:"stub"`
	// Text is "stub" or "gemini".
	Text string `env:"TEXT" envDefault:"stub"`

	StubImageLatency time.Duration `env:"STUB_IMAGE_LATENCY" envDefault:"500ms"`
	StubTextLatency  time.Duration `env:"STUB_TEXT_LATENCY" envDefault:"300ms"`

	FreepikAPIKey  string  `env:"FREEPIK_API_KEY"`
	FreepikBaseURL url.URL `env:"FREEPIK_BASE_URL" envDefault:"https://api.freepik.com/v1/ai"`
	// PollInterval and PollMaxAttempts bound how long an asynchronous
	// Freepik task is awaited (2s * 60 = two minutes by default).
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
	PollMaxAttempts int           `env:"POLL_MAX_ATTEMPTS" envDefault:"60"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

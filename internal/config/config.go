package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"social-sprout/internal/config/configs"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library. The
// nested structs are tagged with envPrefix so their fields are parsed with
// the given prefix. See the individual types in the configs package for
// default values and options. Use Load to construct a Config.
type Config struct {
	// Env specifies the deployment environment (e.g. prod, dev).
	Env string `env:"ENV" envDefault:"prod"`

	HTTP       configs.HTTP       `envPrefix:"HTTP_"`
	Log        configs.Logger     `envPrefix:"LOG_"`
	Store      configs.Store      `envPrefix:"STORE_"`
	Psql       configs.Postgres   `envPrefix:"PSQL_"`
	Mongo      configs.Mongo      `envPrefix:"MONGO_"`
	Provider   configs.Provider   `envPrefix:"PROVIDER_"`
	Payment    configs.Payment    `envPrefix:"PAYMENT_"`
	Generation configs.Generation `envPrefix:"GENERATION_"`
	Assets     configs.Assets     `envPrefix:"ASSETS_"`
}

// Load reads configuration from environment variables into a Config. Values
// from the given dotenv files (".env" when none are given) are applied
// first without overriding variables already set in the environment; a
// missing file is not an error.
func Load(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case "memory", "postgres", "mongo":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Payment.Mode {
	case "budget", "quote":
	default:
		return fmt.Errorf("unknown PAYMENT_MODE %q", c.Payment.Mode)
	}
	switch c.Generation.Mode {
	case "fixed", "per_platform":
	default:
		return fmt.Errorf("unknown GENERATION_MODE %q", c.Generation.Mode)
	}
	switch c.Generation.Recovery {
	case "resume", "fail":
	default:
		return fmt.Errorf("unknown GENERATION_RECOVERY %q", c.Generation.Recovery)
	}
	if c.Generation.Placeholders < 1 {
		return errors.New("GENERATION_PLACEHOLDERS must be positive")
	}
	if c.Generation.Workers < 1 || c.Generation.QueueSize < 1 {
		return errors.New("GENERATION_WORKERS and GENERATION_QUEUE_SIZE must be positive")
	}
	if c.Provider.PollMaxAttempts < 1 {
		return errors.New("PROVIDER_POLL_MAX_ATTEMPTS must be positive")
	}
	return nil
}

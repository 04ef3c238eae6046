package configs

import "time"

// Generation configures placeholder creation and background execution.
type Generation struct {
	// Mode is "fixed" (Placeholders posts on the first platform) or
	// "per_platform" (one post per requested platform).
	Mode         string `env:"MODE" envDefault:"fixed"`
	Placeholders int    `env:"PLACEHOLDERS" envDefault:"3"`

	Workers         int           `env:"WORKERS" envDefault:"4"`
	QueueSize       int           `env:"QUEUE_SIZE" envDefault:"64"`
	PostConcurrency int           `env:"POST_CONCURRENCY" envDefault:"8"`
	PostTimeout     time.Duration `env:"POST_TIMEOUT" envDefault:"3m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Recovery is "resume" (re-dispatch never-started tasks) or "fail"
	// (fail every unfinished task out).
	Recovery         string        `env:"RECOVERY" envDefault:"resume"`
	RecoveryInterval time.Duration `env:"RECOVERY_INTERVAL" envDefault:"1m"`
}

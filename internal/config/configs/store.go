package configs

// Store selects the persistence backend.
type Store struct {
	// Driver is one of "memory", "postgres" or "mongo".
	Driver string `env:"DRIVER" envDefault:"memory"`
}

// Mongo holds the MongoDB connection settings used when Store.Driver is
// "mongo".
type Mongo struct {
	URI      string `env:"URI" envDefault:"mongodb://127.0.0.1:27017"`
	Database string `env:"DATABASE" envDefault:"social-sprout"`
}

package config

import "fmt"

// StoreBackend selects the job store implementation.
type StoreBackend string

const (
	// StoreBackendMemory keeps jobs in process memory. Jobs are lost on
	// restart; purchasers of in-flight jobs must resubmit.
	StoreBackendMemory StoreBackend = "memory"
	// StoreBackendRedis keeps jobs in Redis so state survives restarts.
	StoreBackendRedis StoreBackend = "redis"
)

// StoreConfig contains job store backend configuration.
type StoreConfig struct {
	// Backend selects the store implementation: "memory" or "redis".
	Backend StoreBackend `env:"STORE_BACKEND" envDefault:"memory"`

	// Redis connection settings, used when Backend is "redis".
	Redis RedisConfig `envPrefix:"REDIS_"`
}

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Sanitize applies guardrails to store configuration values.
func (s *StoreConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = StoreBackendMemory
	}
}

// Validate checks that the selected backend is one we can build.
func (s *StoreConfig) Validate() error {
	switch s.Backend {
	case StoreBackendMemory, StoreBackendRedis:
		return nil
	default:
		return fmt.Errorf("invalid store backend: %q (valid options: memory, redis)", s.Backend)
	}
}

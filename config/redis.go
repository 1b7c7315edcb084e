package config

import "time"

// RedisConfig contains the session store configuration.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// SessionTTL is the server-side session lifetime. Zero means
	// sessions live until an explicit logout.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"0"`
}

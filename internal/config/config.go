package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all server settings, populated from the environment.
type Config struct {
	Host string `env:"PROMPTFALL_HOST" envDefault:"localhost"`
	Port uint16 `env:"PROMPTFALL_PORT" envDefault:"8765" validate:"min=1,max=65535"`

	MaxRoomSize   int `env:"MAX_ROOM_SIZE"  envDefault:"4"  validate:"min=2,max=64"`
	VotingSeconds int `env:"VOTING_SECONDS" envDefault:"20" validate:"min=1,max=600"`

	// RedisAddr enables the round journal when non-empty.
	RedisAddr  string `env:"REDIS_ADDR"`
	RedisDB    int    `env:"REDIS_DB"    envDefault:"0"`
	RedisQueue string `env:"REDIS_QUEUE" envDefault:"promptfall_rounds"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file, parses environment variables and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		logrus.Debugf(".env file not found: %v", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Addr is the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

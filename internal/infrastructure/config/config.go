package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// FaultLogPath is where unhandled login fault details are appended.
	FaultLogPath string `env:"FAULT_LOG_PATH, default=error_log.txt"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type JWTConfig struct {
	// Secret is the symmetric signing key. Startup fails without it.
	Secret        string        `env:"JWT_SECRET, required"`
	ValidIssuer   string        `env:"JWT_VALID_ISSUER"`
	ValidAudience string        `env:"JWT_VALID_AUDIENCE"`
	UserIDClaim   string        `env:"USER_ID_CLAIM, default=uid"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,     default=3h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_management"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

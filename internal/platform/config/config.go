package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration, loaded from environment variables
// and an optional .env file.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	GinMode    string `mapstructure:"GIN_MODE"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`

	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	JWTExpiry        time.Duration `mapstructure:"JWT_EXPIRY"`
	RefreshExpiry    time.Duration `mapstructure:"REFRESH_EXPIRY"`
	RateLimit        int64         `mapstructure:"RATE_LIMIT"`
	AuthRateLimit    int64         `mapstructure:"AUTH_RATE_LIMIT"`
	RateLimitPeriod  time.Duration `mapstructure:"RATE_LIMIT_PERIOD"`
	CORSAllowOrigins string        `mapstructure:"CORS_ALLOW_ORIGINS"`
}

// LoadConfig reads configuration from the environment, applying defaults for
// everything except the database URL and JWT secret.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("JWT_EXPIRY", "15m")
	v.SetDefault("REFRESH_EXPIRY", "720h")
	v.SetDefault("RATE_LIMIT", 120)
	v.SetDefault("AUTH_RATE_LIMIT", 10)
	v.SetDefault("RATE_LIMIT_PERIOD", "1m")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")

	// AutomaticEnv alone does not populate Unmarshal; bind each key explicitly.
	for _, key := range []string{
		"SERVER_PORT", "GIN_MODE", "LOG_LEVEL",
		"DATABASE_URL", "MIGRATIONS_DIR",
		"JWT_SECRET", "JWT_EXPIRY", "REFRESH_EXPIRY",
		"RATE_LIMIT", "AUTH_RATE_LIMIT", "RATE_LIMIT_PERIOD", "CORS_ALLOW_ORIGINS",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &cfg, nil
}

// SlogLevel maps the configured log level string to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

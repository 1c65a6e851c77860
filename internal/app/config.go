package app

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development" validate:"oneof=development test staging production"`
	AppAddr         string        `envconfig:"APP_ADDR" default:":8080" validate:"required"`
	AppReadTimeout  time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s" validate:"gt=0"`
	AppWriteTimeout time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s" validate:"gt=0"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty" validate:"oneof=pretty json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	MaxUploadBytes   int    `envconfig:"MAX_UPLOAD_BYTES" default:"33554432" validate:"gt=0"`
	CORSAllowOrigins string `envconfig:"CORS_ALLOW_ORIGINS" default:"*" validate:"required"`
	MetricsEnabled   bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// LoadConfig reads configuration from environment variables. Values found in
// the given .env files (default ".env") are applied first without overriding
// variables that are already set; missing files are ignored.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers a dotenv file, a YAML file and env vars on top.
// - All functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig, source failures wrap ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/dxpredict/internal/domain/disease"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoder: console or json.
	LogFormat string `koanf:"log_format"`

	// LogFile, when set, also writes logs to a rotated file.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ModelDir is the directory holding the model artifacts.
	ModelDir string `koanf:"model_dir"`

	// ModelFiles overrides the artifact file name per disease key,
	// relative to ModelDir.
	ModelFiles map[string]string `koanf:"model_files"`

	// MaxBodyBytes caps request bodies for form and JSON submissions.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "console",
		Addr:         ":8080",
		ModelDir:     "models",
		MaxBodyBytes: 64 << 10,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ModelDir) == "":
		return fmt.Errorf("%w: model_dir must not be empty", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log_format must be console or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	keys := make([]string, 0, len(c.ModelFiles))
	for key := range c.ModelFiles {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if _, ok := disease.Lookup(disease.Key(key)); !ok {
			return fmt.Errorf("%w: model_files.%s is not a known disease", ErrInvalidConfig, key)
		}
		if strings.TrimSpace(c.ModelFiles[key]) == "" {
			return fmt.Errorf("%w: model_files.%s must not be empty", ErrInvalidConfig, key)
		}
	}
	return nil
}

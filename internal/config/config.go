// Package config loads sbnet settings from defaults, an optional YAML file and
// SBNET_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pable/go-sb-networks/internal/passes"
	"github.com/pable/go-sb-networks/internal/statsbomb"
)

// EnvPrefix prefixes every environment override, e.g. SBNET_DB_PATH.
const EnvPrefix = "SBNET_"

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFile receives JSON logs in addition to stderr. Empty disables it.
	LogFile string `koanf:"log_file"`

	DBPath   string `koanf:"db_path"`
	CacheDir string `koanf:"cache_dir"`

	BaseURL            string `koanf:"base_url"`
	HTTPTimeoutSeconds int    `koanf:"http_timeout_seconds"`

	// Decisive-pass thresholds.
	ShotWindowSeconds     int     `koanf:"shot_window_seconds"`
	ProgressiveMinAdvance float64 `koanf:"progressive_min_advance"`
	ProgressiveMinEndX    float64 `koanf:"progressive_min_end_x"`

	// MetricsFile, when set, receives a Prometheus textfile after each command.
	MetricsFile string `koanf:"metrics_file"`

	AnthropicModel string `koanf:"anthropic_model"`
}

// New returns a Config with defaults.
func New() *Config {
	home := userHome()
	th := passes.DefaultThresholds()
	return &Config{
		LogLevel:              "info",
		DBPath:                filepath.Join(home, ".sbnet", "sbnet.db"),
		CacheDir:              filepath.Join(home, ".sbnet", "cache"),
		BaseURL:               statsbomb.DefaultBaseURL,
		HTTPTimeoutSeconds:    30,
		ShotWindowSeconds:     th.ShotWindowSeconds,
		ProgressiveMinAdvance: th.ProgressiveMinAdvance,
		ProgressiveMinEndX:    th.ProgressiveMinEndX,
		AnthropicModel:        "claude-haiku-4-5-20251001",
	}
}

// Load layers, low to high precedence: defaults, the YAML file at path (or
// $SBNET_CONFIG when path is empty), then SBNET_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// SBNET_DB_PATH -> db_path
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.ShotWindowSeconds <= 0:
		return fmt.Errorf("%w: shot_window_seconds must be positive", ErrInvalidConfig)
	case c.ProgressiveMinAdvance < 0 || c.ProgressiveMinEndX < 0:
		return fmt.Errorf("%w: progressive thresholds must not be negative", ErrInvalidConfig)
	case c.BaseURL == "":
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	case c.HTTPTimeoutSeconds <= 0:
		return fmt.Errorf("%w: http_timeout_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}

// Thresholds returns the decisive-pass thresholds.
func (c *Config) Thresholds() passes.Thresholds {
	return passes.Thresholds{
		ShotWindowSeconds:     c.ShotWindowSeconds,
		ProgressiveMinAdvance: c.ProgressiveMinAdvance,
		ProgressiveMinEndX:    c.ProgressiveMinEndX,
	}
}

// HTTPTimeout returns the provider timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

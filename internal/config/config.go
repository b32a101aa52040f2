// Package config loads run settings for symcheck from an optional YAML file,
// environment variables and defaults. The field schema itself is compiled in
// and is not configurable here.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables, applied over the file and under command-line flags
const (
	EnvPath     = "SYMCHECK_PATH"
	EnvFormat   = "SYMCHECK_FORMAT"
	EnvStrict   = "SYMCHECK_STRICT"
	EnvLogLevel = "SYMCHECK_LOG_LEVEL"
)

// Config holds the settings of one run
type Config struct {
	Path   string    `yaml:"path"`   // directory to scan
	Format string    `yaml:"format"` // table or json
	ASCII  bool      `yaml:"ascii"`  // plain marks in tables
	Strict bool      `yaml:"strict"` // fail the run on incomplete libraries
	Log    LogConfig `yaml:"log"`
}

// LogConfig configures diagnostic logging (stderr)
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns a Config with every default applied
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields
func ApplyDefaults(cfg *Config) {
	if cfg.Format == "" {
		cfg.Format = "table"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Validate checks enumerated settings. An empty Path is allowed here; the
// command requires it once flags are applied.
func Validate(cfg *Config) error {
	switch cfg.Format {
	case "table", "json":
	default:
		return fmt.Errorf("format must be \"table\" or \"json\", got %q", cfg.Format)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("log.level %q is not a valid level", cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", cfg.Log.Format)
	}

	return nil
}

// LoadConfig loads configuration from a YAML file at the specified path,
// applies defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Load returns the file configuration when path is set, the defaults
// otherwise, with environment overrides applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides applies SYMCHECK_* environment variables
func ApplyEnvOverrides(cfg *Config) error {
	if val := os.Getenv(EnvPath); val != "" {
		cfg.Path = val
	}
	if val := os.Getenv(EnvFormat); val != "" {
		cfg.Format = val
	}
	if val := os.Getenv(EnvStrict); val != "" {
		strict, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvStrict, val, err)
		}
		cfg.Strict = strict
	}
	if val := os.Getenv(EnvLogLevel); val != "" {
		cfg.Log.Level = val
	}
	return nil
}

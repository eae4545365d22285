// Package config loads MazeMesh configuration from an optional YAML file
// with environment overrides. A .env file, when present, is loaded first so
// local development matches deployed environments.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names recognized as overrides.
const (
	EnvDatabaseURL  = "MAZEMESH_DATABASE_URL"
	EnvLockTimeout  = "MAZEMESH_LOCK_TIMEOUT"
	EnvMemoryWindow = "MAZEMESH_MEMORY_WINDOW"
	EnvLogLevel     = "MAZEMESH_LOG_LEVEL"
	EnvLogFormat    = "MAZEMESH_LOG_FORMAT"
)

// Duration wraps time.Duration with YAML decoding from strings like "30s".
type Duration time.Duration

// UnmarshalYAML decodes a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML encodes the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config holds the runtime settings of a MazeMesh deployment.
type Config struct {
	// DatabaseURL is the postgres connection string. Usually supplied via
	// environment or the credential cache rather than the YAML file.
	DatabaseURL string `yaml:"database_url,omitempty"`
	// LockTimeout bounds how long one invocation waits for the experiment
	// lock before giving up the turn.
	LockTimeout Duration `yaml:"lock_timeout"`
	// MemoryWindow is the default bound on how many recent log entries feed
	// the aggregated spatial memory. 0 means unbounded.
	MemoryWindow int `yaml:"memory_window"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is json or text.
	LogFormat string `yaml:"log_format"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		LockTimeout:  Duration(30 * time.Second),
		MemoryWindow: 50,
		LogLevel:     "info",
		LogFormat:    "json",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty and the file exists), then environment overrides. A .env
// file in the working directory is loaded into the environment first when
// present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file is fine; env + defaults apply.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvLockTimeout); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvLockTimeout, err)
		}
		c.LockTimeout = Duration(parsed)
	}
	if v := os.Getenv(EnvMemoryWindow); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvMemoryWindow, err)
		}
		c.MemoryWindow = parsed
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	return nil
}

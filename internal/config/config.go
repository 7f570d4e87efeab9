// Package config loads formbind settings from defaults, a YAML file,
// FORMBIND_* environment variables and command line flags.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration.
type Config struct {
	// Server addresses the repository manager REST backend.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Logging settings.
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig holds connection settings.
type ServerConfig struct {
	// BaseURL is the REST root, e.g. http://localhost:8081/nexus/service/local.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// Timeout is the overall request timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// SettingsPath, when set, is fetched on startup and its uiTimeout
	// (seconds) replaces Timeout.
	SettingsPath string `yaml:"settings_path" mapstructure:"settings_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level        string `yaml:"level" mapstructure:"level"`
	Format       string `yaml:"format" mapstructure:"format"`
	EnableCaller bool   `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8081/nexus/service/local",
			Timeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.BaseURL) == "" {
		return fmt.Errorf("server.base_url is required")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url must be an absolute URL")
	}
	if c.Server.Timeout < time.Second {
		return fmt.Errorf("server.timeout must be at least 1s")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be one of console, json")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "off", "disabled":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, off")
	}
	return nil
}

// ABOUTME: Configuration loading and parsing for the nexus client
// ABOUTME: Supports YAML or TOML files with env var expansion and an env overlay

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultAuthPath  = "/api/forge"
	DefaultLoginPath = "/forge/login"
)

// Config represents the complete nexus client configuration
type Config struct {
	API       APIConfig       `yaml:"api" toml:"api"`
	State     StateConfig     `yaml:"state" toml:"state"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
}

// APIConfig holds backend addressing and response handling
type APIConfig struct {
	BaseURL   string `yaml:"base_url" toml:"base_url" env:"NEXUS_API_URL"`
	AuthPath  string `yaml:"auth_path" toml:"auth_path" env:"NEXUS_AUTH_PATH"`
	LoginPath string `yaml:"login_path" toml:"login_path" env:"NEXUS_LOGIN_PATH"`

	// StrictStatus turns non-2xx replies of mutating calls into errors.
	StrictStatus bool `yaml:"strict_status" toml:"strict_status" env:"NEXUS_STRICT_STATUS"`
	// ValidateResponses rejects records missing required fields.
	ValidateResponses bool `yaml:"validate_responses" toml:"validate_responses" env:"NEXUS_VALIDATE_RESPONSES"`
}

// StateConfig holds the persistent key-value store location.
// An empty Path keeps state in memory only.
type StateConfig struct {
	Path string `yaml:"path" toml:"path" env:"NEXUS_STATE_PATH"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" env:"NEXUS_LOG_LEVEL"`
	Format string `yaml:"format" toml:"format" env:"NEXUS_LOG_FORMAT"`
}

// TelemetryConfig holds the OTLP/HTTP trace endpoint. Empty disables tracing.
type TelemetryConfig struct {
	Endpoint string `yaml:"endpoint" toml:"endpoint" env:"NEXUS_OTEL_ENDPOINT"`
}

// Default returns the configuration used when no file or env vars are present.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			AuthPath:  DefaultAuthPath,
			LoginPath: DefaultLoginPath,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// FindPath returns the path to the client config file.
// Priority: NEXUS_CONFIG env var > XDG_CONFIG_HOME/nexus/client.yaml > ~/.config/nexus/client.yaml
func FindPath() string {
	if envPath := os.Getenv("NEXUS_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "client.yaml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "nexus", "client.yaml")
}

// Resolve loads the config at FindPath. A missing file at a default
// location yields defaults plus the env overlay; a missing file named
// by NEXUS_CONFIG is an error.
func Resolve() (*Config, string, error) {
	path := FindPath()
	cfg, err := Load(path)
	if err == nil {
		return cfg, path, nil
	}
	if os.Getenv("NEXUS_CONFIG") == "" && errors.Is(err, os.ErrNotExist) {
		cfg, err = FromEnv()
		return cfg, "", err
	}
	return nil, path, err
}

// Load reads a configuration file from the given path on top of Default,
// applies the environment overlay and validates the result.
// Environment variables in the format ${VAR_NAME} are expanded in the file.
// Files ending in .toml are parsed as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(cfg)
}

// FromEnv builds a configuration from Default and the environment only.
func FromEnv() (*Config, error) {
	return finish(Default())
}

func finish(cfg *Config) (*Config, error) {
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// ParseEnv overlays set NEXUS_* environment variables onto target.
// Unset variables leave the existing values alone.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url %q must use http or https", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url %q has no host", c.API.BaseURL)
	}

	if c.API.AuthPath != "" && !strings.HasPrefix(c.API.AuthPath, "/") {
		return fmt.Errorf("api.auth_path %q must start with /", c.API.AuthPath)
	}
	if c.API.LoginPath != "" && !strings.HasPrefix(c.API.LoginPath, "/") {
		return fmt.Errorf("api.login_path %q must start with /", c.API.LoginPath)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}

	if c.Telemetry.Endpoint != "" {
		if _, err := url.Parse(c.Telemetry.Endpoint); err != nil {
			return fmt.Errorf("telemetry.endpoint %q: %w", c.Telemetry.Endpoint, err)
		}
	}

	return nil
}

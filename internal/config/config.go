// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL       = "http://localhost:5000"
	DefaultAPIPrefix       = "/api"
	DefaultTimeout         = 60 * time.Second
	DefaultFallbackMessage = "request failed"
	DefaultUploadLimitMB   = 50

	EnvPrefix = "FLASHGEN"
)

type Config struct {
	ServerURL            string        `yaml:"server_url"`
	APIPrefix            *string       `yaml:"api_prefix"`
	Timeout              time.Duration `yaml:"timeout"`
	FallbackErrorMessage string        `yaml:"fallback_error_message"`
	UploadLimitMB        int64         `yaml:"upload_limit_mb"`
	ExportDir            string        `yaml:"export_dir"`
}

// env holds the overrides read from FLASHGEN_* variables.
type env struct {
	ServerURL            string        `envconfig:"SERVER_URL"`
	APIPrefix            *string       `envconfig:"API_PREFIX"`
	Timeout              time.Duration `envconfig:"TIMEOUT"`
	FallbackErrorMessage string        `envconfig:"FALLBACK_ERROR_MESSAGE"`
	ExportDir            string        `envconfig:"EXPORT_DIR"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path. A missing file is not an error; the
// defaults are returned instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// ApplyEnv overlays any FLASHGEN_* variables that are set.
func (c *Config) ApplyEnv() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if e.ServerURL != "" {
		c.ServerURL = e.ServerURL
	}
	if e.APIPrefix != nil {
		c.APIPrefix = e.APIPrefix
	}
	if e.Timeout > 0 {
		c.Timeout = e.Timeout
	}
	if e.FallbackErrorMessage != "" {
		c.FallbackErrorMessage = e.FallbackErrorMessage
	}
	if e.ExportDir != "" {
		c.ExportDir = e.ExportDir
	}
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server_url %q", c.ServerURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.UploadLimitMB <= 0 {
		return fmt.Errorf("upload_limit_mb must be positive, got %d", c.UploadLimitMB)
	}
	return nil
}

// Prefix returns the API path prefix. An explicit empty prefix is kept.
func (c *Config) Prefix() string {
	if c.APIPrefix == nil {
		return DefaultAPIPrefix
	}
	return *c.APIPrefix
}

func (c *Config) UploadLimitBytes() int64 {
	return c.UploadLimitMB * 1024 * 1024
}

func (c *Config) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.APIPrefix == nil {
		prefix := DefaultAPIPrefix
		c.APIPrefix = &prefix
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.FallbackErrorMessage == "" {
		c.FallbackErrorMessage = DefaultFallbackMessage
	}
	if c.UploadLimitMB == 0 {
		c.UploadLimitMB = DefaultUploadLimitMB
	}
	if c.ExportDir == "" {
		c.ExportDir = "."
	}
}

// Package config loads gatehouse settings from an optional YAML file
// with environment-variable overrides. Precedence: defaults, then file,
// then environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string `yaml:"listen" env:"GATEHOUSE_LISTEN"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"GATEHOUSE_LOG_LEVEL"`
	// CookieSecret signs the browser session cookie.
	CookieSecret string `yaml:"cookie_secret" env:"GATEHOUSE_COOKIE_SECRET"`
	// ToastDuration is how long transient notifications stay visible.
	ToastDuration time.Duration `yaml:"toast_duration" env:"GATEHOUSE_TOAST_DURATION"`

	Provider Provider `yaml:"provider"`
	Google   Google   `yaml:"google"`
}

// Provider points at the hosted identity API.
type Provider struct {
	BaseURL string `yaml:"base_url" env:"GATEHOUSE_PROVIDER_URL"`
	APIKey  string `yaml:"api_key" env:"GATEHOUSE_PROVIDER_API_KEY"`
}

// Google configures the optional Google sign-in path. Leave it empty to
// hide the button.
type Google struct {
	Issuer       string `yaml:"issuer" env:"GATEHOUSE_GOOGLE_ISSUER"`
	ClientID     string `yaml:"client_id" env:"GATEHOUSE_GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GATEHOUSE_GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" env:"GATEHOUSE_GOOGLE_REDIRECT_URL"`
}

// Enabled reports whether Google sign-in is configured.
func (g Google) Enabled() bool {
	return g.ClientID != ""
}

// Defaults returns a config with every optional field populated.
func Defaults() *Config {
	return &Config{
		Listen:        ":8080",
		LogLevel:      "info",
		ToastDuration: 3 * time.Second,
		Google: Google{
			Issuer: "https://accounts.google.com",
		},
	}
}

// Load builds the configuration. path may be empty or point at a
// missing file; only a file that exists but fails to parse is an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Running purely from env is fine.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields gatehouse cannot run without.
func (c *Config) Validate() error {
	if c.Provider.BaseURL == "" {
		return errors.New("provider.base_url is required")
	}
	if c.Provider.APIKey == "" {
		return errors.New("provider.api_key is required")
	}
	if c.CookieSecret == "" {
		return errors.New("cookie_secret is required")
	}
	if c.Google.Enabled() {
		if c.Google.ClientSecret == "" {
			return errors.New("google.client_secret is required when google.client_id is set")
		}
		if c.Google.RedirectURL == "" {
			return errors.New("google.redirect_url is required when google.client_id is set")
		}
	}
	return nil
}

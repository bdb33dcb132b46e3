// Package config loads workspace settings from .cadence/config.yaml with
// CADENCE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/cadence/pkg/storage"
)

// EnvPrefix is the prefix of environment overrides, e.g. CADENCE_PROVIDER.
const EnvPrefix = "CADENCE"

// Config holds workspace settings.
type Config struct {
	Provider     string `mapstructure:"provider" yaml:"provider"`
	Model        string `mapstructure:"model" yaml:"model,omitempty"`
	BaseURL      string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	MaxRetries   int    `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelayMs int    `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
	TimeoutSec   int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format"`
	DateFormat   string `mapstructure:"date_format" yaml:"date_format"`

	Webhooks []WebhookConfig `mapstructure:"webhooks" yaml:"webhooks,omitempty"`
}

// WebhookConfig is an outgoing endpoint notified when a plan changes.
// An empty Events list subscribes to every event type. Format is "json"
// (default) or "slack" for Slack incoming webhooks.
type WebhookConfig struct {
	Name         string   `mapstructure:"name" yaml:"name"`
	URL          string   `mapstructure:"url" yaml:"url"`
	Secret       string   `mapstructure:"secret" yaml:"secret,omitempty"`
	Events       []string `mapstructure:"events" yaml:"events,omitempty"`
	Format       string   `mapstructure:"format" yaml:"format,omitempty"`
	MaxRetries   int      `mapstructure:"max_retries" yaml:"max_retries,omitempty"`
	RetryDelayMs int      `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms,omitempty"`
	Disabled     bool     `mapstructure:"disabled" yaml:"disabled,omitempty"`
}

// ActiveWebhooks returns the endpoints that are not disabled.
func (c *Config) ActiveWebhooks() []WebhookConfig {
	var out []WebhookConfig
	for _, w := range c.Webhooks {
		if !w.Disabled {
			out = append(out, w)
		}
	}
	return out
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Provider:     "groq",
		MaxRetries:   2,
		RetryDelayMs: 1000,
		TimeoutSec:   300,
		LogLevel:     "warn",
		LogFormat:    "text",
		DateFormat:   "Jan 02",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("provider", d.Provider)
	v.SetDefault("model", d.Model)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("retry_delay_ms", d.RetryDelayMs)
	v.SetDefault("timeout_sec", d.TimeoutSec)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("date_format", d.DateFormat)
}

// Load reads the workspace config. A missing file yields defaults, still
// subject to environment overrides.
func Load(root string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := storage.NewFilesystemRepository(root).ResolvePath(storage.ConfigFile)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", statErr)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to .cadence/config.yaml.
func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

var (
	knownProviders = map[string]bool{"groq": true, "openai": true, "ollama": true, "mock": true}
	knownLevels    = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	knownFormats   = map[string]bool{"text": true, "json": true}
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	if !knownProviders[c.Provider] {
		problems = append(problems, fmt.Sprintf("unknown provider %q", c.Provider))
	}
	if c.MaxRetries < 0 {
		problems = append(problems, "max_retries must not be negative")
	}
	if c.RetryDelayMs < 0 {
		problems = append(problems, "retry_delay_ms must not be negative")
	}
	if c.TimeoutSec < 0 {
		problems = append(problems, "timeout_sec must not be negative")
	}
	if !knownLevels[strings.ToLower(c.LogLevel)] {
		problems = append(problems, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}
	if !knownFormats[strings.ToLower(c.LogFormat)] {
		problems = append(problems, fmt.Sprintf("unknown log_format %q", c.LogFormat))
	}
	if strings.TrimSpace(c.DateFormat) == "" {
		problems = append(problems, "date_format must not be empty")
	}
	for i, w := range c.Webhooks {
		u, err := url.Parse(w.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("webhooks[%d]: url must be an absolute http(s) URL", i))
		}
		if w.Format != "" && w.Format != "json" && w.Format != "slack" {
			problems = append(problems, fmt.Sprintf("webhooks[%d]: unknown format %q", i, w.Format))
		}
		if w.MaxRetries < 0 || w.RetryDelayMs < 0 {
			problems = append(problems, fmt.Sprintf("webhooks[%d]: retry settings must not be negative", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

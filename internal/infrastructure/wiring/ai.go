package wiring

import (
	"time"

	"github.com/felixgeelhaar/cadence/internal/infrastructure/config"
	infraai "github.com/felixgeelhaar/cadence/pkg/ai"
	domainai "github.com/felixgeelhaar/cadence/pkg/domain/ai"
)

// LoadAIProvider builds the configured provider wrapped with retry and
// timeout. A nil cfg selects the default provider and model.
func LoadAIProvider(cfg *config.Config) (domainai.Provider, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	name := cfg.Provider
	if name == "" {
		name = infraai.DefaultProviderName
	}

	base, err := infraai.GetDefaultProvider(name, cfg.Model)
	if err != nil {
		return nil, err
	}
	if p, ok := base.(*infraai.OpenAIProvider); ok && cfg.BaseURL != "" {
		p.SetBaseURL(cfg.BaseURL)
	}
	return infraai.NewResilientProviderWithConfig(base, resilienceFor(cfg)), nil
}

// resilienceFor maps the positive config settings onto the provider defaults.
func resilienceFor(cfg *config.Config) infraai.ResilienceConfig {
	rc := infraai.DefaultResilienceConfig()
	if cfg.MaxRetries > 0 {
		rc.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelayMs > 0 {
		rc.RetryDelay = time.Duration(cfg.RetryDelayMs) * time.Millisecond
	}
	if cfg.TimeoutSec > 0 {
		rc.Timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}
	return rc
}

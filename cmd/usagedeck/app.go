package main

import (
	"fmt"

	"github.com/janekbaraniewski/usagedeck/internal/config"
	"github.com/janekbaraniewski/usagedeck/internal/core"
	"github.com/janekbaraniewski/usagedeck/internal/pricing"
	"github.com/janekbaraniewski/usagedeck/internal/providers"
	"github.com/janekbaraniewski/usagedeck/internal/settings"
)

// app holds the shared wiring used by both the server and the TUI.
type app struct {
	cfg       config.Config
	store     *settings.Store
	agg       *core.Aggregator
	providers []core.UsageProvider
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	secret, err := settings.SecretFromEnv(settings.ConfigDir())
	if err != nil {
		return nil, fmt.Errorf("resolve encryption secret: %w", err)
	}
	cipher, err := settings.NewCipher(secret)
	if err != nil {
		return nil, err
	}
	store, err := settings.NewStore(cfg.SettingsPath, cipher)
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}

	provs := providers.All(pricing.Default())
	agg := core.NewAggregator(provs, core.WithFetchTimeout(cfg.ProviderTimeout))

	return &app{
		cfg:       cfg,
		store:     store,
		agg:       agg,
		providers: provs,
	}, nil
}

func (a *app) providerConfigs() core.ProviderConfigs {
	return a.store.Current().ProviderConfigs()
}

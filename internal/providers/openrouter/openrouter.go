// Package openrouter reads the key status endpoint, which reports usage as a
// cost-denominated balance in USD. The provider-reported cost is used
// directly; the token figure is back-estimated from the rate table so the
// history chart has something comparable to plot.
package openrouter

import (
	"context"
	"fmt"
	"time"

	"github.com/janekbaraniewski/usagedeck/internal/core"
	"github.com/janekbaraniewski/usagedeck/internal/pricing"
	"github.com/janekbaraniewski/usagedeck/internal/providers/shared"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

type keyResponse struct {
	Data keyData `json:"data"`
}

type keyData struct {
	Label      string   `json:"label"`
	Usage      float64  `json:"usage"`
	Limit      *float64 `json:"limit"`
	IsFreeTier bool     `json:"is_free_tier"`
}

type Provider struct {
	rates pricing.Table
	now   func() time.Time
}

func New(rates pricing.Table) *Provider {
	return &Provider{rates: rates, now: time.Now}
}

func (p *Provider) ID() core.ProviderID { return core.ProviderOpenRouter }

func (p *Provider) Fetch(ctx context.Context, cfg core.ProviderConfig) (core.UsageSample, error) {
	if !cfg.Enabled() {
		return core.UsageSample{}, core.ErrNotConfigured
	}

	baseURL := shared.ResolveBaseURL(cfg.BaseURL, defaultBaseURL)

	var body keyResponse
	if err := shared.GetJSON(ctx, baseURL+"/auth/key", shared.BearerHeaders(cfg.APIKey), &body); err != nil {
		return core.UsageSample{}, fmt.Errorf("openrouter: %w", err)
	}

	sample := core.UsageSample{
		Tokens:      p.rates.TokensForCost(core.ProviderOpenRouter, body.Data.Usage),
		Cost:        body.Data.Usage,
		LastUpdated: p.now().UTC(),
		Limit:       body.Data.Limit,
	}
	if body.Data.Limit != nil {
		remaining := *body.Data.Limit - body.Data.Usage
		sample.Remaining = &remaining
	}
	return sample, nil
}

func (p *Provider) Probe(ctx context.Context, cfg core.ProviderConfig) error {
	if !cfg.Enabled() {
		return core.ErrNotConfigured
	}
	baseURL := shared.ResolveBaseURL(cfg.BaseURL, defaultBaseURL)
	if err := shared.GetJSON(ctx, baseURL+"/auth/key", shared.BearerHeaders(cfg.APIKey), nil); err != nil {
		return fmt.Errorf("openrouter: %w", err)
	}
	return nil
}

// Package openai fetches daily usage from the OpenAI usage endpoint and
// normalizes it into a UsageSample.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/janekbaraniewski/usagedeck/internal/core"
	"github.com/janekbaraniewski/usagedeck/internal/pricing"
	"github.com/janekbaraniewski/usagedeck/internal/providers/shared"
)

const defaultBaseURL = "https://api.openai.com/v1"

type usageResponse struct {
	TotalUsage float64 `json:"total_usage"`
}

// Provider implements core.UsageProvider for the OpenAI API. OpenAI reports
// a raw total-usage figure with no cost attached, so cost is estimated from
// the rate table.
type Provider struct {
	rates pricing.Table
	now   func() time.Time
}

func New(rates pricing.Table) *Provider {
	return &Provider{rates: rates, now: time.Now}
}

func (p *Provider) ID() core.ProviderID { return core.ProviderOpenAI }

func (p *Provider) Fetch(ctx context.Context, cfg core.ProviderConfig) (core.UsageSample, error) {
	if !cfg.Enabled() {
		return core.UsageSample{}, core.ErrNotConfigured
	}

	now := p.now().UTC()
	baseURL := shared.ResolveBaseURL(cfg.BaseURL, defaultBaseURL)
	url := fmt.Sprintf("%s/usage?date=%s", baseURL, now.Format("2006-01-02"))

	var body usageResponse
	if err := shared.GetJSON(ctx, url, shared.BearerHeaders(cfg.APIKey), &body); err != nil {
		return core.UsageSample{}, fmt.Errorf("openai: %w", err)
	}

	tokens := int64(body.TotalUsage)
	return core.UsageSample{
		Tokens:      tokens,
		Cost:        p.rates.Estimate(core.ProviderOpenAI, tokens),
		LastUpdated: now,
	}, nil
}

// Probe hits the models endpoint, which requires a valid key but records no
// usage.
func (p *Provider) Probe(ctx context.Context, cfg core.ProviderConfig) error {
	if !cfg.Enabled() {
		return core.ErrNotConfigured
	}
	baseURL := shared.ResolveBaseURL(cfg.BaseURL, defaultBaseURL)
	if err := shared.GetJSON(ctx, baseURL+"/models", shared.BearerHeaders(cfg.APIKey), nil); err != nil {
		return fmt.Errorf("openai: %w", err)
	}
	return nil
}

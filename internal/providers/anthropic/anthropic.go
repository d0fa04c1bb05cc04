// Package anthropic covers the one provider in the set without a usage
// reporting API. A configured key yields a deterministic zero-valued sample
// carrying an explanatory note; this documents the capability gap instead of
// surfacing a fetch failure.
package anthropic

import (
	"context"
	"fmt"
	"time"

	"github.com/janekbaraniewski/usagedeck/internal/core"
	"github.com/janekbaraniewski/usagedeck/internal/providers/shared"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	apiVersion     = "2023-06-01"
)

// UsageNote is surfaced on the dashboard for the Anthropic card.
const UsageNote = "Anthropic usage tracking requires session history parsing"

type Provider struct {
	now func() time.Time
}

func New() *Provider {
	return &Provider{now: time.Now}
}

func (p *Provider) ID() core.ProviderID { return core.ProviderAnthropic }

func (p *Provider) Fetch(ctx context.Context, cfg core.ProviderConfig) (core.UsageSample, error) {
	if !cfg.Enabled() {
		return core.UsageSample{}, core.ErrNotConfigured
	}
	return core.UsageSample{
		Tokens:      0,
		Cost:        0,
		LastUpdated: p.now().UTC(),
		Note:        UsageNote,
	}, nil
}

func (p *Provider) Probe(ctx context.Context, cfg core.ProviderConfig) error {
	if !cfg.Enabled() {
		return core.ErrNotConfigured
	}
	baseURL := shared.ResolveBaseURL(cfg.BaseURL, defaultBaseURL)
	headers := map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": apiVersion,
	}
	if err := shared.GetJSON(ctx, baseURL+"/models", headers, nil); err != nil {
		return fmt.Errorf("anthropic: %w", err)
	}
	return nil
}

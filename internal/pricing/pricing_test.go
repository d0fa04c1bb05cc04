package pricing

import (
	"math"
	"testing"

	"github.com/janekbaraniewski/usagedeck/internal/core"
)

func TestEstimate(t *testing.T) {
	rates := Default()
	tests := []struct {
		name   string
		id     core.ProviderID
		tokens int64
		want   float64
	}{
		{"openai million tokens", core.ProviderOpenAI, 1_000_000, 2.0},
		{"anthropic million tokens", core.ProviderAnthropic, 1_000_000, 3.0},
		{"openrouter million tokens", core.ProviderOpenRouter, 1_000_000, 1.5},
		{"zero tokens", core.ProviderOpenAI, 0, 0},
		{"negative tokens", core.ProviderOpenAI, -5, 0},
		{"unknown provider defaults to zero", core.ProviderID("mystery"), 1_000_000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rates.Estimate(tt.id, tt.tokens); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Estimate(%q, %d) = %v, want %v", tt.id, tt.tokens, got, tt.want)
			}
		})
	}
}

func TestTokensForCost(t *testing.T) {
	rates := Default()
	tests := []struct {
		name string
		id   core.ProviderID
		cost float64
		want int64
	}{
		{"openrouter dollar fifty", core.ProviderOpenRouter, 1.5, 1_000_000},
		{"zero cost", core.ProviderOpenRouter, 0, 0},
		{"negative cost", core.ProviderOpenRouter, -1, 0},
		{"unknown provider", core.ProviderID("mystery"), 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rates.TokensForCost(tt.id, tt.cost); got != tt.want {
				t.Errorf("TokensForCost(%q, %v) = %d, want %d", tt.id, tt.cost, got, tt.want)
			}
		})
	}
}

func TestTokensForCost_InvertsEstimate(t *testing.T) {
	rates := Default()
	for _, id := range core.ProviderIDs() {
		tokens := int64(123_456)
		cost := rates.Estimate(id, tokens)
		if got := rates.TokensForCost(id, cost); got != tokens {
			t.Errorf("TokensForCost(%q, Estimate(%d)) = %d, want %d", id, tokens, got, tokens)
		}
	}
}

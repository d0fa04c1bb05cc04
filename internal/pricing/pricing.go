// Package pricing maps raw token counts to estimated USD cost. The rates are
// illustrative blended per-token prices, not a vendor price sheet; providers
// that report cost directly (OpenRouter) bypass the estimate entirely.
package pricing

import (
	"math"

	"github.com/janekbaraniewski/usagedeck/internal/core"
)

// Table holds blended USD-per-token rates keyed by provider. Unknown
// providers estimate to 0 rather than failing.
type Table map[core.ProviderID]float64

func Default() Table {
	return Table{
		core.ProviderOpenAI:     0.002 / 1000,
		core.ProviderAnthropic:  0.003 / 1000,
		core.ProviderOpenRouter: 0.0015 / 1000,
	}
}

// Estimate returns the estimated cost in USD for tokens consumed on the
// given provider.
func (t Table) Estimate(id core.ProviderID, tokens int64) float64 {
	if tokens <= 0 {
		return 0
	}
	return float64(tokens) * t[id]
}

// TokensForCost inverts Estimate for providers that expose a
// cost-denominated balance instead of a token count.
func (t Table) TokensForCost(id core.ProviderID, cost float64) int64 {
	rate := t[id]
	if rate <= 0 || cost <= 0 {
		return 0
	}
	return int64(math.Round(cost / rate))
}

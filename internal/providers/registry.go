package providers

import (
	"github.com/janekbaraniewski/usagedeck/internal/core"
	"github.com/janekbaraniewski/usagedeck/internal/pricing"
	"github.com/janekbaraniewski/usagedeck/internal/providers/anthropic"
	"github.com/janekbaraniewski/usagedeck/internal/providers/openai"
	"github.com/janekbaraniewski/usagedeck/internal/providers/openrouter"
)

// All returns one adapter per tracked provider, in display order.
func All(rates pricing.Table) []core.UsageProvider {
	return []core.UsageProvider{
		openai.New(rates),
		anthropic.New(),
		openrouter.New(rates),
	}
}

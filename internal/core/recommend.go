package core

import (
	"fmt"

	"github.com/samber/lo"
)

type RecommendationKind string

const (
	RecommendationCost    RecommendationKind = "cost"
	RecommendationBilling RecommendationKind = "billing"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityHigh    Severity = "high"
)

// Recommendation is a derived advisory message. Recommendations are
// recomputed from the current snapshot on every request and never stored.
type Recommendation struct {
	Kind     RecommendationKind `json:"type"`
	Severity Severity           `json:"severity"`
	Message  string             `json:"message"`
}

const (
	// Monthly spend across all providers above which a cost recommendation
	// fires, in USD.
	costAlertThreshold = 100.0
	// Billing-cycle progress percent above which a per-provider warning fires.
	cycleAlertThreshold = 80
)

// Evaluate scans a snapshot for threshold breaches: one high-severity cost
// recommendation when total spend exceeds $100, then one billing warning per
// provider past 80% of its cycle, in provider display order. An empty slice
// means all clear.
func Evaluate(snap Snapshot) []Recommendation {
	recs := []Recommendation{}

	total := lo.SumBy(ProviderIDs(), func(id ProviderID) float64 {
		return snap.Provider(id).Cost
	})
	if total > costAlertThreshold {
		recs = append(recs, Recommendation{
			Kind:     RecommendationCost,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("Total cost is $%.2f/month. Consider switching to cheaper models for routine tasks.", total),
		})
	}

	for _, id := range ProviderIDs() {
		ps := snap.Provider(id)
		if ps.BillingCycle == nil || ps.BillingCycle.Progress <= cycleAlertThreshold {
			continue
		}
		recs = append(recs, Recommendation{
			Kind:     RecommendationBilling,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%s: %d%% through billing cycle with $%.2f spent.", id, ps.BillingCycle.Progress, ps.Cost),
		})
	}

	return recs
}

package core

import (
	"context"
	"errors"
	"time"

	"github.com/janekbaraniewski/usagedeck/internal/billing"
)

// ProviderID identifies one of the tracked LLM API vendors. The set is
// closed: adding a provider means extending the constants below and the
// exhaustive switches in Snapshot and HistoryEntry.
type ProviderID string

const (
	ProviderOpenAI     ProviderID = "openai"
	ProviderAnthropic  ProviderID = "anthropic"
	ProviderOpenRouter ProviderID = "openrouter"
)

// ProviderIDs returns all provider IDs in canonical display order.
func ProviderIDs() []ProviderID {
	return []ProviderID{ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter}
}

func ParseProviderID(s string) (ProviderID, bool) {
	switch ProviderID(s) {
	case ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter:
		return ProviderID(s), true
	}
	return "", false
}

// ErrNotConfigured is returned by a provider Fetch when no API key is
// configured. The aggregator treats it like any other unavailable result
// but logs it more quietly.
var ErrNotConfigured = errors.New("provider not configured")

// ProviderConfig carries the per-provider credentials and billing anchor for
// a single refresh. It is supplied by the settings layer on every call and
// never cached inside adapters, so key rotation takes effect on the next
// refresh.
type ProviderConfig struct {
	APIKey          string
	BillingCycleDay int    // day of month (1-31) the billing cycle starts
	BaseURL         string // custom API base URL, used by tests
}

func (c ProviderConfig) Enabled() bool { return c.APIKey != "" }

// ProviderConfigs holds one config per provider.
type ProviderConfigs struct {
	OpenAI     ProviderConfig
	Anthropic  ProviderConfig
	OpenRouter ProviderConfig
}

func (c ProviderConfigs) For(id ProviderID) ProviderConfig {
	switch id {
	case ProviderOpenAI:
		return c.OpenAI
	case ProviderAnthropic:
		return c.Anthropic
	case ProviderOpenRouter:
		return c.OpenRouter
	}
	return ProviderConfig{}
}

// UsageSample is one normalized usage reading from a provider. Samples are
// produced fresh on each fetch and never mutated afterwards.
type UsageSample struct {
	Tokens      int64     `json:"tokens"`
	Cost        float64   `json:"cost"`
	LastUpdated time.Time `json:"lastUpdated"`
	// Note documents a known capability gap for providers without a usage
	// API, as opposed to a fetch failure.
	Note      string   `json:"note,omitempty"`
	Limit     *float64 `json:"limit,omitempty"`
	Remaining *float64 `json:"remaining,omitempty"`
}

// ProviderSnapshot is the best-known state for one provider. BillingCycle is
// nil until the provider has been fetched successfully at least once.
type ProviderSnapshot struct {
	UsageSample
	BillingCycle *billing.CycleInfo `json:"billingCycle"`
}

// HistoryEntry records the token count per provider at one refresh instant.
// Entries are immutable once appended.
type HistoryEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	OpenAI     int64     `json:"openai"`
	Anthropic  int64     `json:"anthropic"`
	OpenRouter int64     `json:"openrouter"`
}

func (e *HistoryEntry) SetTokens(id ProviderID, tokens int64) {
	switch id {
	case ProviderOpenAI:
		e.OpenAI = tokens
	case ProviderAnthropic:
		e.Anthropic = tokens
	case ProviderOpenRouter:
		e.OpenRouter = tokens
	}
}

func (e HistoryEntry) Tokens(id ProviderID) int64 {
	switch id {
	case ProviderOpenAI:
		return e.OpenAI
	case ProviderAnthropic:
		return e.Anthropic
	case ProviderOpenRouter:
		return e.OpenRouter
	}
	return 0
}

// MaxHistoryEntries caps the rolling history buffer; the oldest entries are
// dropped first once the cap is exceeded.
const MaxHistoryEntries = 100

// Snapshot is the aggregate best-known usage state across all providers plus
// the rolling history. Every provider always has an entry; unfetched
// providers stay at their zero value.
type Snapshot struct {
	OpenAI     ProviderSnapshot `json:"openai"`
	Anthropic  ProviderSnapshot `json:"anthropic"`
	OpenRouter ProviderSnapshot `json:"openrouter"`
	History    []HistoryEntry   `json:"history"`
}

func (s Snapshot) Provider(id ProviderID) ProviderSnapshot {
	switch id {
	case ProviderOpenAI:
		return s.OpenAI
	case ProviderAnthropic:
		return s.Anthropic
	case ProviderOpenRouter:
		return s.OpenRouter
	}
	return ProviderSnapshot{}
}

func (s *Snapshot) SetProvider(id ProviderID, ps ProviderSnapshot) {
	switch id {
	case ProviderOpenAI:
		s.OpenAI = ps
	case ProviderAnthropic:
		s.Anthropic = ps
	case ProviderOpenRouter:
		s.OpenRouter = ps
	}
}

// Clone returns a copy whose history does not share backing storage with the
// receiver, so serving-layer readers never observe an in-progress append.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.History = make([]HistoryEntry, len(s.History))
	copy(out.History, s.History)
	return out
}

// UsageProvider fetches raw usage from one vendor and normalizes it into a
// UsageSample. Fetch returns ErrNotConfigured when no key is set and a
// wrapped error on any network, HTTP, or decode failure; callers treat both
// as "unavailable" and keep the previous snapshot entry.
type UsageProvider interface {
	ID() ProviderID
	Fetch(ctx context.Context, cfg ProviderConfig) (UsageSample, error)
	// Probe performs a cheap connectivity check without recording usage.
	Probe(ctx context.Context, cfg ProviderConfig) error
}

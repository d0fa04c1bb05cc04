package core

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/janekbaraniewski/usagedeck/internal/billing"
	"github.com/janekbaraniewski/usagedeck/internal/observability"
)

const defaultFetchTimeout = 10 * time.Second

// Aggregator owns the live Snapshot and its history. Only the aggregator
// writes them; everything else receives copies. One instance is constructed
// at process start and passed to the serving layer.
type Aggregator struct {
	mu        sync.RWMutex
	snap      Snapshot
	providers []UsageProvider
	timeout   time.Duration
	now       func() time.Time

	// refreshing guards against overlapping refreshes (timer tick racing a
	// manual trigger); an overlapping call is skipped, not queued.
	refreshing atomic.Bool
}

type AggregatorOption func(*Aggregator)

// WithFetchTimeout bounds each provider call so one unresponsive vendor
// cannot stall the whole refresh.
func WithFetchTimeout(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithClock overrides the refresh timestamp source in tests.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAggregator(providers []UsageProvider, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		providers: providers,
		timeout:   defaultFetchTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot returns the last computed snapshot without triggering a fetch.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap.Clone()
}

type fetchResult struct {
	id     ProviderID
	sample UsageSample
	err    error
}

// Refresh fetches all providers concurrently and merges the results into the
// snapshot. A provider failure never aborts the pass: the previous entry for
// that provider is retained and its history token count records as zero.
// The snapshot is mutated only after every provider has resolved, so
// concurrent readers see either the pre-refresh or post-refresh state in
// full. If a refresh is already in flight the call is skipped and the
// current snapshot returned unchanged.
func (a *Aggregator) Refresh(ctx context.Context, configs ProviderConfigs) Snapshot {
	if !a.refreshing.CompareAndSwap(false, true) {
		observability.RefreshSkipped.Inc()
		log.Printf("aggregator event=refresh_skipped reason=in_flight")
		return a.Snapshot()
	}
	defer a.refreshing.Store(false)

	now := a.now()

	var wg sync.WaitGroup
	results := make(chan fetchResult, len(a.providers))
	for _, p := range a.providers {
		wg.Add(1)
		go func(p UsageProvider) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			start := time.Now()
			sample, err := p.Fetch(fetchCtx, configs.For(p.ID()))
			observability.ProviderFetchDuration.WithLabelValues(string(p.ID())).Observe(time.Since(start).Seconds())

			results <- fetchResult{id: p.ID(), sample: sample, err: err}
		}(p)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	merged := make(map[ProviderID]fetchResult, len(a.providers))
	for r := range results {
		merged[r.id] = r
	}

	a.mu.Lock()
	entry := HistoryEntry{Timestamp: now}
	for _, p := range a.providers {
		r := merged[p.ID()]
		if r.err != nil {
			if errors.Is(r.err, ErrNotConfigured) {
				log.Printf("aggregator event=provider_unconfigured provider=%s", p.ID())
			} else {
				observability.ProviderFetchErrors.WithLabelValues(string(p.ID())).Inc()
				log.Printf("aggregator event=fetch_error provider=%s err=%v", p.ID(), r.err)
			}
			continue
		}

		ps := ProviderSnapshot{UsageSample: r.sample}
		cycle := billing.Compute(configs.For(p.ID()).BillingCycleDay, now)
		ps.BillingCycle = &cycle
		a.snap.SetProvider(p.ID(), ps)
		entry.SetTokens(p.ID(), r.sample.Tokens)
	}

	a.snap.History = append(a.snap.History, entry)
	if n := len(a.snap.History); n > MaxHistoryEntries {
		a.snap.History = append(a.snap.History[:0:0], a.snap.History[n-MaxHistoryEntries:]...)
	}
	out := a.snap.Clone()
	a.mu.Unlock()

	observability.RefreshTotal.Inc()
	return out
}

// Run refreshes once immediately, then on every interval tick until the
// context is cancelled. configs is re-evaluated on each tick so settings
// edits take effect without a restart. Failures inside a pass are logged by
// Refresh; the loop always re-arms.
func (a *Aggregator) Run(ctx context.Context, interval time.Duration, configs func() ProviderConfigs) {
	a.Refresh(ctx, configs())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("aggregator event=stop reason=%v", ctx.Err())
			return
		case <-ticker.C:
			a.Refresh(ctx, configs())
		}
	}
}

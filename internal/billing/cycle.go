// Package billing derives billing-cycle progress from a configured cycle
// start day. There is no persisted state; everything is recomputed from the
// clock on each aggregation pass.
package billing

import (
	"math"
	"time"
)

// CycleInfo describes progress through a monthly billing cycle. It is
// derived purely from (cycle start day, current date) and recomputed on
// every aggregation pass.
type CycleInfo struct {
	DaysElapsed   int       `json:"daysElapsed"`
	DaysRemaining int       `json:"daysRemaining"`
	Progress      int       `json:"progress"`
	ResetDate     time.Time `json:"resetDate"`
}

// Compute returns cycle progress for the monthly cycle anchored at
// cycleDay, evaluated at asOf.
//
// Clamping policy: a cycle day beyond the length of the month it falls in
// (e.g. 31 in February) is treated as that month's last day. Days outside
// 1..31 are clamped into range first.
func Compute(cycleDay int, asOf time.Time) CycleInfo {
	if cycleDay < 1 {
		cycleDay = 1
	}
	if cycleDay > 31 {
		cycleDay = 31
	}

	year, month, currentDay := asOf.Date()
	dim := daysIn(year, month)
	startDay := min(cycleDay, dim)

	var elapsed, remaining int
	var reset time.Time
	if currentDay >= startDay {
		elapsed = currentDay - startDay
		remaining = dim - currentDay + startDay
		nextDim := daysIn(year, month+1)
		reset = time.Date(year, month+1, min(cycleDay, nextDim), 0, 0, 0, 0, asOf.Location())
	} else {
		prevDim := daysIn(year, month-1)
		elapsed = prevDim - min(cycleDay, prevDim) + currentDay
		remaining = startDay - currentDay
		reset = time.Date(year, month, startDay, 0, 0, 0, 0, asOf.Location())
	}

	return CycleInfo{
		DaysElapsed:   elapsed,
		DaysRemaining: remaining,
		Progress:      progressPercent(elapsed, remaining),
		ResetDate:     reset,
	}
}

func progressPercent(elapsed, remaining int) int {
	total := elapsed + remaining
	if total <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(elapsed) / float64(total)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// daysIn normalizes month outside 1..12, so daysIn(y, 13) is January of y+1.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

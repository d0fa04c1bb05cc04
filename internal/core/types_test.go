package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseProviderID(t *testing.T) {
	tests := []struct {
		input  string
		want   ProviderID
		wantOK bool
	}{
		{"openai", ProviderOpenAI, true},
		{"anthropic", ProviderAnthropic, true},
		{"openrouter", ProviderOpenRouter, true},
		{"", "", false},
		{"OpenAI", "", false},
		{"gemini", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseProviderID(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseProviderID(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSnapshotProviderRoundTrip(t *testing.T) {
	var snap Snapshot
	for i, id := range ProviderIDs() {
		snap.SetProvider(id, ProviderSnapshot{UsageSample: UsageSample{Tokens: int64(i + 1)}})
	}
	for i, id := range ProviderIDs() {
		if got := snap.Provider(id).Tokens; got != int64(i+1) {
			t.Errorf("Provider(%q).Tokens = %d, want %d", id, got, i+1)
		}
	}
}

func TestHistoryEntryTokensRoundTrip(t *testing.T) {
	var e HistoryEntry
	for i, id := range ProviderIDs() {
		e.SetTokens(id, int64(10*(i+1)))
	}
	for i, id := range ProviderIDs() {
		if got := e.Tokens(id); got != int64(10*(i+1)) {
			t.Errorf("Tokens(%q) = %d, want %d", id, got, 10*(i+1))
		}
	}
	if e.Tokens(ProviderID("mystery")) != 0 {
		t.Error("Tokens(unknown) != 0")
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	snap := Snapshot{
		OpenAI: ProviderSnapshot{UsageSample: UsageSample{
			Tokens:      42,
			Cost:        0.084,
			LastUpdated: time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC),
		}},
		History: []HistoryEntry{{
			Timestamp: time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC),
			OpenAI:    42,
		}},
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`"openai":`, `"anthropic":`, `"openrouter":`, `"history":`,
		`"tokens":42`, `"lastUpdated":`, `"billingCycle":null`, `"timestamp":`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("snapshot JSON missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, `"note"`) {
		t.Errorf("empty note should be omitted: %s", out)
	}
}

func TestSnapshotCloneDetachesHistory(t *testing.T) {
	snap := Snapshot{History: []HistoryEntry{{OpenAI: 1}, {OpenAI: 2}}}
	clone := snap.Clone()
	clone.History[0].OpenAI = 99
	if snap.History[0].OpenAI != 1 {
		t.Error("Clone shares history backing array with original")
	}
}

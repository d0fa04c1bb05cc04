package anthropic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/janekbaraniewski/usagedeck/internal/core"
)

func TestFetch_ReturnsPlaceholderWithNote(t *testing.T) {
	p := New()
	sample, err := p.Fetch(context.Background(), core.ProviderConfig{APIKey: "sk-ant-test"})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if sample.Tokens != 0 || sample.Cost != 0 {
		t.Errorf("sample = %+v, want zero tokens and cost", sample)
	}
	if sample.Note != UsageNote {
		t.Errorf("Note = %q, want %q", sample.Note, UsageNote)
	}
	if sample.LastUpdated.IsZero() {
		t.Error("LastUpdated is zero")
	}
}

func TestFetch_EmptyKeyNotConfigured(t *testing.T) {
	p := New()
	_, err := p.Fetch(context.Background(), core.ProviderConfig{})
	if !errors.Is(err, core.ErrNotConfigured) {
		t.Errorf("Fetch() error = %v, want ErrNotConfigured", err)
	}
}

func TestProbe_SendsVersionedKeyHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "sk-ant-test" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != apiVersion {
			t.Errorf("anthropic-version = %q, want %q", got, apiVersion)
		}
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	p := New()
	if err := p.Probe(context.Background(), core.ProviderConfig{APIKey: "sk-ant-test", BaseURL: server.URL}); err != nil {
		t.Errorf("Probe() error: %v", err)
	}
}

func TestProbe_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	p := New()
	if err := p.Probe(context.Background(), core.ProviderConfig{APIKey: "bad", BaseURL: server.URL}); err == nil {
		t.Error("Probe() error = nil, want HTTP error")
	}
}

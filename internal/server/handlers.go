package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/janekbaraniewski/usagedeck/internal/core"
	"github.com/janekbaraniewski/usagedeck/internal/settings"
)

const sessionAuthKey = "authenticated"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server event=encode_error err=%v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !s.store.Current().CheckPassword(req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	// Rotate the session token on privilege change.
	if err := s.sessions.RenewToken(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Session error")
		return
	}
	s.sessions.Put(r.Context(), sessionAuthKey, true)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Session error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"authenticated": s.sessions.GetBool(r.Context(), sessionAuthKey),
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions.GetBool(r.Context(), sessionAuthKey) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.agg.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap := s.agg.Refresh(r.Context(), s.store.Current().ProviderConfigs())
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": snap})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Evaluate(s.agg.Snapshot()))
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Current().Masked())
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var upd settings.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	next, err := s.store.Update(upd)
	if err != nil {
		log.Printf("server event=settings_save_error err=%v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	// Pick up new credentials right away.
	s.agg.Refresh(r.Context(), next.ProviderConfigs())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleTestConnections probes each configured provider in parallel and
// reports a per-provider boolean. Unconfigured providers report false.
func (s *Server) handleTestConnections(w http.ResponseWriter, r *http.Request) {
	configs := s.store.Current().ProviderConfigs()

	var mu sync.Mutex
	results := make(map[core.ProviderID]bool, len(s.providers))

	var wg sync.WaitGroup
	for _, p := range s.providers {
		wg.Add(1)
		go func(p core.UsageProvider) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
			defer cancel()

			err := p.Probe(ctx, configs.For(p.ID()))
			if err != nil {
				log.Printf("server event=probe_failed provider=%s err=%v", p.ID(), err)
			}
			mu.Lock()
			results[p.ID()] = err == nil
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	writeJSON(w, http.StatusOK, results)
}

// Package server exposes the usage dashboard over HTTP: a static frontend,
// a session-gated JSON API, and Prometheus metrics.
package server

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/janekbaraniewski/usagedeck/internal/config"
	"github.com/janekbaraniewski/usagedeck/internal/core"
	"github.com/janekbaraniewski/usagedeck/internal/settings"
)

//go:embed static
var staticFiles embed.FS

// Server wires the aggregator, settings store and session state behind
// the HTTP API.
type Server struct {
	cfg       config.Config
	store     *settings.Store
	agg       *core.Aggregator
	providers []core.UsageProvider
	sessions  *scs.SessionManager
	limiter   *ipRateLimiter
}

func New(cfg config.Config, store *settings.Store, agg *core.Aggregator, providers []core.UsageProvider) (*Server, error) {
	db, err := sql.Open("sqlite3", cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`); err != nil {
		db.Close()
		return nil, err
	}

	sessions := scs.New()
	sessions.Store = sqlite3store.New(db)
	sessions.Lifetime = cfg.SessionLifetime
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	return &Server{
		cfg:       cfg,
		store:     store,
		agg:       agg,
		providers: providers,
		sessions:  sessions,
		limiter:   newIPRateLimiter(rate.Every(6*time.Second), 10),
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(s.sessions.LoadAndSave)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/health", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Brute-force protection on the one unauthenticated mutation.
	r.With(s.limiter.middleware).Post("/api/login", s.handleLogin)
	r.Post("/api/logout", s.handleLogout)
	r.Get("/api/auth-status", s.handleAuthStatus)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/api/usage", s.handleUsage)
		r.Post("/api/refresh", s.handleRefresh)
		r.Get("/api/recommendations", s.handleRecommendations)
		r.Get("/api/settings", s.handleGetSettings)
		r.Post("/api/settings", s.handleUpdateSettings)
		r.Post("/api/test-connections", s.handleTestConnections)
	})

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/*", http.FileServer(http.FS(static)))

	return r
}

// Run serves HTTP and drives the periodic refresh loop until ctx is
// cancelled, then shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("server event=listening addr=%s", s.cfg.ListenAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		s.agg.Run(ctx, s.cfg.RefreshInterval, func() core.ProviderConfigs {
			return s.store.Current().ProviderConfigs()
		})
		return nil
	})

	g.Go(func() error {
		if err := s.store.Watch(ctx); err != nil {
			log.Printf("server event=settings_watch_error err=%v", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}

package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/corey/ruinadex/dex"
)

// Server serves the search page and JSON API over HTTP.
type Server struct {
	dex      *dex.Dex
	logger   *zap.Logger
	listener net.Listener
	httpSrv  *http.Server
	started  time.Time
	latency  *LatencyTracker
	stopOnce sync.Once
}

// latencyWindow is how far back /api/health looks for query latencies.
const latencyWindow = 5 * time.Minute

// NewServer creates an HTTP server over d.
func NewServer(d *dex.Dex, logger *zap.Logger) *Server {
	return &Server{dex: d, logger: logger, started: time.Now(), latency: NewLatencyTracker(latencyWindow)}
}

// Handler returns the router. Exposed for tests and for embedding in another
// server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/query", s.handleQuery)
	r.Get("/api/autocomplete", s.handleAutocomplete)
	r.Get("/api/records/{id}", s.handleRecord)
	r.Get("/api/encyclopedia", s.handleEncyclopedia)
	r.Handle("/*", http.FileServerFS(staticFS))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticFS, "static/index.html")
	})
	return r
}

// Start begins listening on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.httpSrv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.logger.Info("serving", zap.String("url", s.URL()))

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("serve failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpSrv.Shutdown(ctx)
		}
	})
}

// URL returns the base URL once started.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/triage/internal/config"
	"github.com/me/triage/internal/scheduler"
	"github.com/me/triage/internal/store"
	"github.com/me/triage/internal/ui"
	"github.com/me/triage/pkg/model"
)

// Server is the triage REST API server.
type Server struct {
	router      chi.Router
	logger      *slog.Logger
	config      config.ServerConfig
	startTime   time.Time
	store       store.Store
	queue       scheduler.Scheduler
	volume      []model.VolumePoint
	sseInterval time.Duration
	ui          *ui.UI // UI handler for web interface

	done      chan struct{}
	closeOnce sync.Once
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithVolume sets the weekly volume series reported by /analytics.
func WithVolume(v []model.VolumePoint) Option {
	return func(s *Server) {
		s.volume = v
	}
}

// WithSSEInterval sets how often SSE streams poll the queue. Defaults to one second.
func WithSSEInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.sseInterval = d
		}
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, queue scheduler.Scheduler, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger.With("component", "server"),
		config:      cfg,
		startTime:   time.Now(),
		store:       st,
		queue:       queue,
		sseInterval: time.Second,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.ui = ui.New(st, queue, logger, ui.Config{
		Volume:   s.volume,
		Settings: cfg.Dashboard,
	})

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close ends every open SSE stream. http.Server.Shutdown does not cancel
// request contexts, so register Close with RegisterOnShutdown.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	// UI routes (HTML)
	s.ui.RegisterRoutes(r)

	// API routes (JSON)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)

		// Catalog
		r.Route("/emails", func(r chi.Router) {
			r.Get("/", s.handleListEmails)
			r.Get("/{id}", s.handleGetEmail)
		})

		// Processing queue
		r.Route("/queue", func(r chi.Router) {
			r.Get("/", s.handleGetQueue)
			r.Post("/start", s.handleQueueStart)
			r.Post("/pause", s.handleQueuePause)
			r.Post("/resume", s.handleQueueResume)
			r.Post("/reset", s.handleQueueReset)
			r.Post("/reload", s.handleQueueReload)
		})

		r.Get("/analytics", s.handleAnalytics)
		r.Get("/settings", s.handleSettings)

		// SSE endpoints for real-time updates
		r.Route("/sse", func(r chi.Router) {
			r.Get("/queue", s.handleSSEQueue)
		})
	})
}

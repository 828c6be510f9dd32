// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: New builds every dependency once
//
//	config → sqlite.DB, metrics, notify.Hub
//	       → auth.TokenService, auth.PasswordService
//	       → services (auth, assignment, submission, analytics)
//	       → handlers → routes
//
// and Start owns their lifetime, tearing them down in reverse on shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/assignment-hub/internal/auth"
	"github.com/sakif/assignment-hub/internal/config"
	"github.com/sakif/assignment-hub/internal/handler"
	"github.com/sakif/assignment-hub/internal/metrics"
	"github.com/sakif/assignment-hub/internal/middleware"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/notify"
	sqliteRepo "github.com/sakif/assignment-hub/internal/repository/sqlite"
	"github.com/sakif/assignment-hub/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection and the event hub. Close releases
// both; Start calls it after the HTTP listener has drained.
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	hub     *notify.Hub
	metrics *metrics.Metrics
	authSvc *service.AuthService

	closeOnce sync.Once
}

// New opens the database and wires every layer.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	m := metrics.New()
	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: m,
		hub:     notify.NewHub(cfg.EventBuffer, m, logger),
	}

	if err := s.setupRoutes(); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /                           dashboard page
//	GET    /healthz                    database ping
//	GET    /metrics                    Prometheus
//	POST   /api/auth/login             password sign-in
//	POST   /api/auth/logout            idempotent
//	GET    /auth/github/{login,callback}  only when configured
//	--- session required ---
//	GET    /api/auth/me
//	GET    /api/assignments[/{id}]
//	GET    /api/submissions
//	GET    /api/analytics
//	GET    /api/events                 WebSocket
//	--- professor ---
//	POST   /api/assignments
//	PUT    /api/assignments/{id}
//	DELETE /api/assignments/{id}
//	--- student ---
//	POST   /api/submissions
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so the logger can print it; Recoverer runs inside the
// logger so a panic is still logged as a 500.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger, s.metrics))
	s.router.Use(chimiddleware.Recoverer)

	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	s.authSvc = service.NewAuthService(s.db, s.db, tokens, passwords, s.config.SessionTTL, s.logger)
	assignmentSvc := service.NewAssignmentService(s.db, s.hub, s.metrics, s.logger)
	submissionSvc := service.NewSubmissionService(s.db, s.db, s.hub, s.metrics, s.logger)
	analyticsSvc := service.NewAnalyticsService(s.db, s.logger)

	var github handler.GitHubExchanger
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
	}

	authHandler := handler.NewAuthHandler(s.authSvc, github, s.config.CookieSecure, s.logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, s.logger)
	submissionHandler := handler.NewSubmissionHandler(submissionSvc, s.logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, s.logger)
	eventsHandler := handler.NewEventsHandler(s.hub, s.logger)
	pageHandler, err := handler.NewPageHandler(github != nil, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}

	s.router.Get("/", pageHandler.HandleDashboard)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.authSvc))

			r.Get("/auth/me", authHandler.HandleMe)
			r.Get("/assignments", assignmentHandler.HandleList)
			r.Get("/assignments/{id}", assignmentHandler.HandleGet)
			r.Get("/submissions", submissionHandler.HandleList)
			r.Get("/analytics", analyticsHandler.HandleSummary)
			r.Get("/events", eventsHandler.HandleEvents)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(model.RoleProfessor))
				r.Post("/assignments", assignmentHandler.HandleCreate)
				r.Put("/assignments/{id}", assignmentHandler.HandleUpdate)
				r.Delete("/assignments/{id}", assignmentHandler.HandleDelete)
			})

			r.With(auth.RequireRole(model.RoleStudent)).Post("/submissions", submissionHandler.HandleSubmit)
		})
	})

	return nil
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.Write([]byte(`{"status":"ok"}`))
}

// purgeSessions deletes expired session rows every interval until ctx ends.
func (s *Server) purgeSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.authSvc.PurgeExpiredSessions(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Warn("session purge failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Close disconnects event clients and closes the database. Safe to call twice.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.hub.Close()
		err = s.db.Close()
	})
	return err
}

// Start runs the server until SIGINT/SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully:
//  1. stop accepting connections and drain in-flight requests (30s)
//  2. close the hub, which ends every WebSocket stream
//  3. close the database
//
// WebSocket connections are hijacked, so http.Server.Shutdown does not wait
// for them; step 2 is what ends them.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go s.purgeSessions(purgeCtx, s.config.SessionPurge)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.Bool("github", s.config.GitHubEnabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		stopPurge()
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

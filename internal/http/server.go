package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/game-reviews/internal/catalog"
	"github.com/Clark-Hu/game-reviews/internal/config"
	"github.com/Clark-Hu/game-reviews/internal/repository"
	"github.com/Clark-Hu/game-reviews/internal/session"
	"github.com/Clark-Hu/game-reviews/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg      config.Config
	store    *store.Store
	repo     *repository.Repository
	catalog  catalog.Client
	identity session.Provider
	views    Renderer
	logger   *slog.Logger
	router   chi.Router
	httpSrv  *http.Server
}

// Deps groups the collaborators a Server needs.
type Deps struct {
	Store    *store.Store
	Repo     *repository.Repository
	Catalog  catalog.Client
	Identity session.Provider
	Views    Renderer
	Logger   *slog.Logger
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:      cfg,
		store:    deps.Store,
		repo:     deps.Repo,
		catalog:  deps.Catalog,
		identity: deps.Identity,
		views:    deps.Views,
		logger:   logger,
		router:   r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Get("/", s.handleHome)
	s.router.Get("/guest", s.handleGuest)
	s.router.Get("/logout", s.handleLogout)
	s.router.Get("/register", s.handleRegisterForm)
	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/login", s.handleHome)
		r.Post("/login", s.handleLogin)
		r.Get("/register", s.handleRegisterForm)
		r.Post("/register", s.handleRegister)
	})

	s.router.Get("/search", s.handleSearchPage)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/games", s.handleAPIGames)
		r.Get("/genres", s.handleGenres)
		r.Get("/platforms", s.handlePlatforms)
	})

	s.router.Route("/game", func(r chi.Router) {
		r.Post("/review", s.handleSubmitReview)
		r.Get("/{gameId}", s.handleGameDetails)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusNotFound, viewNotFound, nil)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http: listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

type healthResponse struct {
	Status string          `json:"status"`
	DB     store.PoolStats `json:"db"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		s.logger.Warn("health check failed", "error", err)
		s.respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
		return
	}
	s.respondJSON(w, http.StatusOK, healthResponse{Status: "ok", DB: s.store.Stats()})
}

// Package api exposes the REST surface over the application services.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/tilespeak/tilespeak-server/internal/auth"
	"github.com/tilespeak/tilespeak-server/internal/config"
	"github.com/tilespeak/tilespeak-server/internal/http/response"
	"github.com/tilespeak/tilespeak-server/internal/ratelimit"
	"github.com/tilespeak/tilespeak-server/internal/service"
)

// Services bundles the application services the API depends on.
type Services struct {
	Auth    *service.AuthService
	Boards  *service.BoardService
	Choices *service.ChoiceService
	Speech  *service.SpeechService
}

// Server is the HTTP API server.
type Server struct {
	cfg           *config.Config
	services      Services
	tokens        *auth.TokenService
	logger        *slog.Logger
	httpServer    *http.Server
	loginLimiter  *ratelimit.KeyedRateLimiter
	speechLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates the API server and wires up all routes.
func NewServer(cfg *config.Config, services Services, tokens *auth.TokenService, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		services: services,
		tokens:   tokens,
		logger:   logger,
		// Login: 5 attempts per key, refilling one every 2 seconds
		loginLimiter: ratelimit.New(rate.Every(2*time.Second), 5),
		// Speech synthesis costs money per character upstream
		speechLimiter: ratelimit.New(rate.Every(time.Second), 10),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		// Public presets are listable without a session; a valid session
		// additionally reveals the caller's own tiles.
		r.With(s.optionalAuth).Get("/board-choices", s.handleListChoices)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/current-user", s.handleCurrentUser)

			r.Route("/boards", func(r chi.Router) {
				r.Get("/", s.handleListBoards)
				r.Post("/", s.handleCreateBoard)
				r.Get("/first/{userID}", s.handleFirstBoard)
				r.Get("/{boardID}", s.handleGetBoard)
				r.Get("/{boardID}/entries", s.handleBoardEntries)
				r.Put("/{boardID}", s.handleUpdateBoard)
				r.Delete("/{boardID}", s.handleDeleteBoard)
				r.Post("/{boardID}/choices", s.handleAddChoice)
				r.Delete("/{boardID}/choices/{choiceID}", s.handleRemoveChoice)
				r.Post("/{boardID}/custom", s.handleAddCustomEntry)
				r.Delete("/{boardID}/custom/{customID}", s.handleRemoveCustomEntry)
			})

			r.Post("/choices/custom", s.handleCreateCustomChoice)
			r.Post("/polly/synthesize", s.handleSynthesize)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Package server provides the HTTP API for Sortify.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sortify/sortify/internal/catalog"
	"github.com/sortify/sortify/internal/config"
	"github.com/sortify/sortify/internal/ranking"
	"github.com/sortify/sortify/internal/session"
	"go.uber.org/zap"
)

// Server is the HTTP server for the Sortify API.
type Server struct {
	loader   *catalog.Loader
	ranker   *ranking.Ranker
	session  *session.Session
	config   *config.ServerConfig
	logger   *zap.Logger
	validate *validator.Validate
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	loader *catalog.Loader,
	ranker *ranking.Ranker,
	sess *session.Session,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		loader:   loader,
		ranker:   ranker,
		session:  sess,
		config:   cfg,
		logger:   logger,
		validate: validator.New(),
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/login", s.handleLogin)
	r.Post("/api/v1/setup", s.handleSetup)
	r.Post("/api/v1/logout", s.handleLogout)

	r.Get("/api/v1/theme", s.handleGetTheme)
	r.Put("/api/v1/theme", s.handleSetTheme)

	r.Get("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/search/start", s.handleSearchStart)
	r.Post("/api/v1/search/next", s.handleSearchNext)
	r.Post("/api/v1/search/visible", s.handleSearchVisible)
	r.Get("/api/v1/search/results", s.handleSearchResults)

	r.Get("/api/v1/cart", s.handleCartGet)
	r.Post("/api/v1/cart", s.handleCartAdd)
	r.Delete("/api/v1/cart/{id}", s.handleCartRemove)
	r.Get("/api/v1/cart/export", s.handleCartExport)
	r.Get("/api/v1/cart/names", s.handleCartNames)

	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encoding failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"message": message})
}

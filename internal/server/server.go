// Package server provides the HTTP API for Shiori.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hazuki/shiori/internal/config"
	"github.com/hazuki/shiori/internal/search"
	"github.com/hazuki/shiori/internal/storage"
)

// watchService is the watcher surface the API needs. Satisfied by
// *watcher.Watcher.
type watchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the Shiori API.
type Server struct {
	engine     *search.Engine
	store      *storage.Store
	config     *config.Config
	configPath string
	watch      watchService
	configMu   sync.Mutex
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(engine *search.Engine, store *storage.Store, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		engine: engine,
		store:  store,
		config: cfg,
		logger: logger,
	}
}

// SetWatch attaches a running watcher so the watch-directory endpoints work.
// configPath, when non-empty, is where directory changes are persisted.
func (s *Server) SetWatch(w watchService, configPath string) {
	s.watch = w
	s.configPath = configPath
}

// router builds the chi router with all middleware and routes.
func (s *Server) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/tweets/{id}", s.handleGetTweet)
	r.Get("/api/v1/tweets/{id}/media", s.handleListMedia)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/watch/directories", s.handleWatchDirectoriesList)
	r.Post("/api/v1/watch/directories", s.handleWatchDirectoriesAdd)
	r.Delete("/api/v1/watch/directories", s.handleWatchDirectoriesRemove)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
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

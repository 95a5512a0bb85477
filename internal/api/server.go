// Package api exposes the studio engine over a loopback HTTP surface:
// project editing, auth, generation jobs, media and export.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lumina/iris-studio/internal/auth"
	"github.com/lumina/iris-studio/internal/generate"
	"github.com/lumina/iris-studio/internal/media"
	"github.com/lumina/iris-studio/internal/moderation"
	"github.com/lumina/iris-studio/internal/project"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port      int
	Project   *project.Store
	Auth      *auth.Service
	Gate      *moderation.Gate
	Registry  moderation.Registry
	Jobs      generate.Repository
	Library   *media.Library
	Streamer  *media.Streamer
	Events    *Hub
	Logger    *slog.Logger
	StartTime time.Time
	Version   string
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

package server

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"taskmaster-user-service/cmd/api/di"
	"taskmaster-user-service/internal/config"
)

// Server holds the HTTP server of the application
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(cfg, c.GinHandler, c.Metrics, l),
	}
}

// Start serves until the server is shut down.
// A clean shutdown returns nil.
func (s *Server) Start() error {
	s.Logger.Info("Gin REST API running",
		zap.String("address", s.Gin.Addr),
		zap.String("users", s.Config.UsersBasePath()),
		zap.String("environment", s.Config.App.Env),
	)

	if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "taskmaster-user-service/internal/adapter/gin/handler"
	"taskmaster-user-service/internal/adapter/gin/middleware"
	ginrouter "taskmaster-user-service/internal/adapter/gin/router"
	"taskmaster-user-service/internal/config"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	cfg *config.Config,
	handler *ginhandler.UserHandler,
	metrics *middleware.Metrics,
	l *zap.Logger,
) *http.Server {
	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(cfg, handler, metrics, l)

	return &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

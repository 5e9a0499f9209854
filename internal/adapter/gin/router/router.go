package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"taskmaster-user-service/api/openapi"
	"taskmaster-user-service/internal/adapter/gin/handler"
	"taskmaster-user-service/internal/adapter/gin/middleware"
	"taskmaster-user-service/internal/config"
	"taskmaster-user-service/pkg/logger"
)

const (
	welcomeMessage = "Welcome to Task Master Pro API"
	openAPIPath    = "/openapi/users.json"
)

// SetupRouter configures and returns a Gin router with all routes and middleware.
// metrics may be nil, in which case no collectors run and no exposition route is mounted.
func SetupRouter(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	metrics *middleware.Metrics,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	startedAt := time.Now()

	router := gin.New()

	// Global middleware. Recovery is innermost: panics still reach the access log and metrics.
	router.Use(logger.RequestIDMiddleware())
	router.Use(middleware.Logger(log))
	if metrics != nil && cfg.Metrics.Enabled {
		router.Use(metrics.Middleware())
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}
	router.Use(middleware.Recovery(log))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":     welcomeMessage,
			"service":     cfg.Logger.ServiceName,
			"version":     cfg.App.APIVersion,
			"environment": cfg.App.Env,
			"status":      "running",
			"endpoints": gin.H{
				"health": "/health",
				"users":  cfg.UsersBasePath(),
			},
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"uptime":      time.Since(startedAt).Seconds(),
			"environment": cfg.App.Env,
		})
	})

	// API docs
	router.GET(openAPIPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openapi.UsersJSON)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL(openAPIPath),
	)))

	users := router.Group(cfg.UsersBasePath())
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.POST("", userHandler.CreateUser)
		users.PATCH("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Route not found",
			"path":    c.Request.URL.Path,
		})
	})

	return router
}

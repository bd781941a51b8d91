// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BeingRelentless/QKart-Shopping/internal/config"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/session"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/storage"
	"github.com/BeingRelentless/QKart-Shopping/internal/interfaces/http/middleware"
	"github.com/BeingRelentless/QKart-Shopping/internal/interfaces/http/routes"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/metrics"
)

const maxRequestBody = 1 << 20

// Dependencies are the collaborators the HTTP server is built from
type Dependencies struct {
	Storage  *storage.Storage
	Sessions *session.Manager
	Metrics  *metrics.Metrics
	Handlers routes.Handlers
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	deps       Dependencies
	gin        *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance with its routes in place
func NewServer(cfg *config.Config, deps Dependencies, logger *logrus.Logger) *Server {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.IsDevelopment():
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.TestMode)
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		deps:      deps,
		gin:       gin.New(),
		startedAt: time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the traced root handler
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.gin, s.config.App.Name)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"api_base": fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
		"backend":  s.config.Backend.BaseURL,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures the middleware shared by every route
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders())
	if s.deps.Metrics != nil {
		s.gin.Use(middleware.Metrics(s.deps.Metrics))
	}
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)
	if s.deps.Metrics != nil {
		s.gin.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}

	apiV1 := s.gin.Group("/api/v1")
	apiV1.Use(
		middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.config.Storage.KeyPrefix, s.deps.Storage.RedisClient(), s.logger),
		middleware.RequestSizeLimit(maxRequestBody),
		middleware.Timeout(s.config.Server.RequestTimeout, "/api/v1/search/events", "/api/v1/search/ws"),
		middleware.Visitor(s.config.Visitor, s.deps.Storage.Store),
		middleware.LoadSession(s.deps.Sessions, s.logger),
	)

	routes.SetupRoutes(apiV1, s.deps.Handlers)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"auth":     "/api/v1/auth",
					"products": "/api/v1/products",
					"cart":     "/api/v1/cart",
					"search":   "/api/v1/search",
					"checkout": "/api/v1/checkout",
				},
			})
		})
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := s.deps.Storage.Health(ctx); err != nil {
		s.logger.WithError(err).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  fmt.Sprintf("%s storage unavailable", s.deps.Storage.Driver),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
		"storage":     s.deps.Storage.Driver,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

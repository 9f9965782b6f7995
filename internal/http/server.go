// Package http provides the HTTP server and router assembly.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/tokenbox/internal/auth/http"
	authService "github.com/allisson/tokenbox/internal/auth/service"
	authUseCase "github.com/allisson/tokenbox/internal/auth/usecase"
	"github.com/allisson/tokenbox/internal/config"
	containerHTTP "github.com/allisson/tokenbox/internal/container/http"
	containerUseCase "github.com/allisson/tokenbox/internal/container/usecase"
	"github.com/allisson/tokenbox/internal/metrics"
)

// Server represents the API HTTP server.
type Server struct {
	config           *config.Config
	logger           *slog.Logger
	db               *sql.DB
	router           *gin.Engine
	server           *http.Server
	authUseCase      authUseCase.UseCase
	tokenService     authService.TokenService
	containerUseCase containerUseCase.UseCase
	metricsProvider  *metrics.Provider
}

// NewServer creates a new API server. The router is assembled lazily on Start
// so tests can swap it.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	authUC authUseCase.UseCase,
	tokenService authService.TokenService,
	containerUC containerUseCase.UseCase,
	metricsProvider *metrics.Provider,
) *Server {
	return &Server{
		config:           cfg,
		logger:           logger,
		db:               db,
		authUseCase:      authUC,
		tokenService:     tokenService,
		containerUseCase: containerUC,
		metricsProvider:  metricsProvider,
	}
}

// SetupRouter assembles the gin router with all middleware and routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		s.config.CORSEnabled, s.config.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if s.metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			s.metricsProvider.MeterProvider(), s.config.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authHandler := authHTTP.NewAuthHandler(s.authUseCase, s.logger)
	authHandler.RegisterRoutes(router)

	authenticated := router.Group("/")
	authenticated.Use(authHTTP.AuthenticationMiddleware(s.authUseCase, s.tokenService, s.logger))
	if s.config.RateLimitEnabled {
		authenticated.Use(authHTTP.RateLimitMiddleware(
			s.config.RateLimitRequestsPerSec, s.config.RateLimitBurst, s.logger))
	}

	containerHandler := containerHTTP.NewContainerHandler(s.containerUseCase, s.logger)
	containerHandler.RegisterRoutes(authenticated, authHTTP.AdminRequiredMiddleware(s.logger))

	return router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.router = s.SetupRouter()
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.ServerHost, s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness including database connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	ready := true
	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

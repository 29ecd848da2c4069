// internal/server/server.go
// HTTP server setup with dependency injection

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nsf-ski/race-service/internal/api"
	"github.com/nsf-ski/race-service/internal/config"
	"github.com/nsf-ski/race-service/internal/database"
	"github.com/nsf-ski/race-service/internal/logging"
	"github.com/nsf-ski/race-service/internal/middleware"
	"github.com/nsf-ski/race-service/internal/services"
	"github.com/nsf-ski/race-service/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	router   *gin.Engine
	services *services.Container
	logger   *logging.Logger
	server   *http.Server
}

// New creates a new server with all dependencies
func New(cfg *config.Config, db *database.Connections, logger *logging.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create service container with all business logic
	serviceContainer := services.NewContainer(db, cfg, logger.StdLogger())

	// Create router with middleware
	router := setupRouter(cfg, serviceContainer, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		config:   cfg,
		router:   router,
		services: serviceContainer,
		logger:   logger,
		server:   srv,
	}
}

// setupRouter configures all routes and middleware
func setupRouter(cfg *config.Config, svc *services.Container, logger *logging.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger.StdLogger()))
	router.Use(middleware.RequestID())
	if cfg.Features.EnableRateLimiting {
		router.Use(middleware.RateLimiter(svc.Cache))
	}

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))

	// Maintenance mode middleware
	if cfg.Features.MaintenanceMode {
		router.Use(middleware.MaintenanceMode())
	}

	// Health check (always available)
	router.GET("/health", api.HealthCheck(cfg))

	// API routes
	v1 := router.Group("/api/v1")
	{
		api.RegisterRaceplanRoutes(v1, svc)
		api.RegisterStartlistRoutes(v1, svc)
		api.RegisterRaceRoutes(v1, svc)
		api.RegisterTimeEventRoutes(v1, svc)
		api.RegisterAdminRoutes(v1, svc)
	}

	// WebSocket endpoint (if enabled)
	if cfg.Features.EnableWebSocket {
		hub := websocket.NewHub(svc, logger.StdLogger())
		svc.SetBroadcaster(hub)
		go hub.Run()
		router.GET("/ws", middleware.OptionalAuth(svc.Users), websocket.HandleConnection(hub))
	}

	return router
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infof("shutting down server")
	return s.server.Shutdown(ctx)
}

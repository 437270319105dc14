// Package server is a development Summarization and History service.
package server

import (
	"log/slog"
	"net/http"

	"github.com/alkime/recap/internal/config"
	"github.com/alkime/recap/internal/history"
	"github.com/alkime/recap/internal/pipeline"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	config    *config.Config
	logger    *slog.Logger
	router    *gin.Engine
	processor pipeline.Processor
	history   *history.Store
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, processor pipeline.Processor, store *history.Store) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.MaxMultipartMemory = maxRequestBody

	server := &Server{
		config:    cfg,
		logger:    logger,
		router:    router,
		processor: processor,
		history:   store,
	}

	// Setup middleware and routes
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	s.router.POST(pipeline.SummarizePath, limitBody(maxRequestBody), s.handleSummarize)
	s.router.GET(history.Path, s.handleHistory)

	// Optional web assets. Registered after the API routes, so it only runs
	// for paths no route matched.
	if s.config.StaticDir != "" {
		s.router.Use(static.Serve("/", static.LocalFile(s.config.StaticDir, true)))
		s.logger.Debug("Serving static files", "dir", s.config.StaticDir)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recap",
		"backend": s.config.Backend,
	})
}

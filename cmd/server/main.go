package main

import (
	"log"

	"github.com/alkime/recap/internal/config"
	"github.com/alkime/recap/internal/history"
	"github.com/alkime/recap/internal/logger"
	"github.com/alkime/recap/internal/pipeline"
	"github.com/alkime/recap/internal/server"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	l := logger.SetupLogger(cfg)

	l.Info("Starting Recap server",
		"env", cfg.Env,
		"port", cfg.Port,
		"backend", cfg.Backend,
		"static_dir", cfg.StaticDir,
	)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	processor, err := pipeline.FromConfig(cfg, l)
	if err != nil {
		l.Error("Failed to set up processing backend", "error", err)
		log.Fatalf("Fatal: %v", err)
	}

	srv := server.New(cfg, l, processor, history.NewStore(cfg.HistoryLimit))

	if err := server.Run(srv); err != nil {
		l.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}

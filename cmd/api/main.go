package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/snapcap/internal/api"
	"github.com/timmy/snapcap/internal/api/middleware"
	"github.com/timmy/snapcap/internal/config"
	"github.com/timmy/snapcap/internal/logger"
	"github.com/timmy/snapcap/internal/repository"
	"github.com/timmy/snapcap/internal/service"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.GetDefault().Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(nil)
	logger.SetDefault(log)

	store := repository.NewHistoryStore(cfg.History.Path)

	visionService := service.NewVisionService(&service.VisionConfig{
		BaseURL: cfg.Vision.BaseURL,
		Model:   cfg.Vision.Model,
		Timeout: time.Duration(cfg.Vision.TimeoutSeconds) * time.Second,
	})

	captionService := service.NewCaptionService(&service.CaptionConfig{
		BaseURL: cfg.Caption.BaseURL,
		Model:   cfg.Caption.Model,
		APIKey:  cfg.Caption.APIKey,
		Timeout: time.Duration(cfg.Caption.TimeoutSeconds) * time.Second,
	})

	if cfg.Caption.APIKey == "" {
		log.Warn("HF_TOKEN is not set; caption generation will fail with a configuration error")
	}

	router := api.SetupRouter(visionService, captionService, store, middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}, cfg.Server.Mode)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.WithFields(logger.Fields{
			"port":            cfg.Server.Port,
			"mode":            cfg.Server.Mode,
			logger.FieldModel: cfg.Caption.Model,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

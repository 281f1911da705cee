package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"item-api/config"
	"item-api/internal/app"
	"item-api/internal/logger"
	"item-api/internal/server"

	"github.com/sirupsen/logrus"
)

// @title           Item API
// @version         1.0
// @description     CRUD service for priced items using Gin and pgx.
// @BasePath        /api/v1
// @schemes         http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}
	defer application.Close()

	srv := server.NewServer(application)

	// --- Graceful Shutdown Handling ---
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("Server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shut down")
	}

	log.Info("Application gracefully stopped.")
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"artisanconnect/internal/config"
	"artisanconnect/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("provider modes",
		zap.String("payment", config.Mode(cfg.Payment.Mock)),
		zap.String("sms", config.Mode(cfg.SMS.Mock)),
	)
	if cfg.Payment.Mock {
		log.Warn("payment gateway credentials not configured, using mock payments")
	}

	repos, err := openRepositories(cfg)
	if err != nil {
		log.Fatal("failed to open repositories", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
	}

	srv, err := newServer(cfg, repos, log)
	if err != nil {
		log.Fatal("failed to initialize server", zap.Error(err))
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting server", zap.String("port", cfg.AppPort))
		if err := srv.app.Listen(cfg.AppPort); err != nil {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down server")

	if err := srv.app.Shutdown(); err != nil {
		log.Error("error during fiber shutdown", zap.Error(err))
	}
	srv.Close()
	log.Info("server gracefully stopped")
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"storepulse/internal/config"
	"storepulse/internal/logger"
	"storepulse/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize worker
	w, err := worker.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize worker: %v", err)
	}

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}

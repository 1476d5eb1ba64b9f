package main

import (
	"log"

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

	// Initialize pipeline
	w, err := worker.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize pipeline: %v", err)
	}

	// One-shot run; the scheduler (cron or similar) re-invokes us
	if err := w.RunOnce(); err != nil {
		logger.Fatal("Report run failed: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/suu3play/hobby-weather-sub000/internal/app"
	"github.com/suu3play/hobby-weather-sub000/internal/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build the notifier
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}
	defer a.Stop()

	// Seed defaults and start the scheduler
	if err := a.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	log.Println("Notifier running")

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down...")
}

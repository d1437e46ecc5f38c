package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/studytrace/backend/internal/infrastructure/config"
	"github.com/studytrace/backend/internal/infrastructure/server"
)

func main() {
	port := flag.String("port", "", "Server port (overrides PORT)")
	storageDir := flag.String("storage", "", "Storage directory (overrides STORAGE_DIR)")
	thresholds := flag.String("thresholds", "", "Optional YAML engine threshold overrides")
	dev := flag.Bool("dev", false, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *storageDir != "" {
		cfg.Storage.Dir = *storageDir
	}
	if *dev {
		cfg.Logging.Development = true
	}
	if *thresholds != "" {
		if err := cfg.ApplyOverrides(*thresholds); err != nil {
			log.Fatalf("Failed to apply threshold overrides: %v", err)
		}
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}

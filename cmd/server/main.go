// Package main is the entry point for the planner dashboard API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/planner-dashboard/backend/internal/api"
	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/storage"
	"github.com/planner-dashboard/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	addr := flag.String("addr", ":8080", "HTTP server address")
	dataDir := flag.String("data", "./data", "Data directory for SQLite database")
	staticDir := flag.String("static", "", "Directory for static frontend files")
	requireAuth := flag.Bool("require-auth", true, "Require a bearer token on resource routes")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	log := logger.FromEnv()
	defer log.Sync()

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(*addr); err != nil {
			log.Fatal("Health check failed", "error", err)
		}
		os.Exit(0)
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Info("Starting planner dashboard API", "version", version)

	db, err := storage.NewDB(filepath.Join(*dataDir, "planner.db"))
	if err != nil {
		log.Fatal("Failed to open database", "error", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}
	log.Info("Database migrations complete")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	router := api.NewRouter(api.Options{
		DB:          db,
		Hub:         hub,
		Log:         log,
		Version:     version,
		RequireAuth: *requireAuth,
		StaticDir:   *staticDir,
	})

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", *addr, "require_auth", *requireAuth)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", "error", err)
		return
	}

	log.Info("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	resp, err := http.Get("http://localhost" + addr + "/api/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// Package main is the entry point for the OptiPress server. It loads
// configuration, starts the image pipeline, sets up routing, and runs
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"optipress/internal/ai"
	"optipress/internal/config"
	"optipress/internal/handlers"
	"optipress/internal/imaging"
	"optipress/internal/library"
	"optipress/internal/preview"
	"optipress/internal/router"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load .env if present; real environment variables win.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"default_format", cfg.DefaultFormat,
		"workers", cfg.ConvertWorkers,
	)

	// Start libvips. Must be shut down before exit to flush its caches.
	imaging.Startup(cfg.VipsConcurrency)
	defer imaging.Shutdown()

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"gemini": {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"claude": {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"openai": {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.Name(),
		"available", aiRegistry.Available(),
	)

	// All state is in-memory: the preview store and the image library
	// live exactly as long as the process.
	previews := preview.NewStore()

	lib, err := library.New(imaging.NewConverter(), aiRegistry, previews,
		cfg.DefaultSettings(), cfg.ConvertWorkers)
	if err != nil {
		slog.Error("failed to create image library", "error", err)
		os.Exit(1)
	}
	defer lib.Close()

	// Set up the Chi router with all middleware and routes.
	api := handlers.NewAPI(lib, previews)
	r, stopRouter := router.New(api, router.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		CaptionRPM:     cfg.CaptionRPM,
	})
	defer stopRouter()

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate caption endpoints that wait on LLM
	// responses (typically 10-30s, up to 60s for large images).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

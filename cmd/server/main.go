package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"suggest-backend/internal/config"
	"suggest-backend/internal/database"
	"suggest-backend/internal/handlers"
	"suggest-backend/internal/router"
	"suggest-backend/internal/schema"
	"suggest-backend/internal/services"
	"suggest-backend/internal/telemetry"
)

func main() {
	log.Println("🚀 Starting Suggest Backend...")

	// ──── Step 1: Load Configuration ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration invalid: %v", err)
	}
	log.Printf("✓ Configuration loaded (env=%s)", cfg.Env)

	// ──── Step 2: Compile Request/Response Schemas ────
	validator, err := schema.NewValidator()
	if err != nil {
		log.Fatalf("✗ Schema compilation failed: %v", err)
	}
	log.Println("✓ Suggest schemas compiled")

	// ──── Step 3: Telemetry ────
	var recorder telemetry.Recorder = telemetry.LogRecorder{}
	switch {
	case !cfg.TelemetryEnabled:
		recorder = telemetry.NoopRecorder{}
		log.Println("✓ Telemetry disabled")
	case cfg.RedisURL != "":
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		recorder = telemetry.NewRedisRecorder(redisClient, cfg.TelemetryChannel)
		log.Printf("✓ Redis connected, telemetry on channel %s", cfg.TelemetryChannel)
	default:
		log.Println("✓ Telemetry logging only (REDIS_URL not set)")
	}

	// ──── Step 4: Handlers ────
	suggestService := services.NewSuggestService()
	suggestHandler := handlers.NewSuggestHandler(suggestService, validator, cfg.MaxBodyBytes, cfg.ValidateResponses)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(suggestHandler, recorder, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
		close(idle)
	}()

	log.Printf("✓ Suggest Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: POST http://localhost:%s/api/suggest-prompts", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	<-idle
}

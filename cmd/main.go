/*
Package main is the entry point for the Khebrah API server.

It is responsible for loading configuration, initializing the global logging system,
building the AI gateway and its collaborators (session store, simulated account
backend, thread hub, assistant registry, expert directory), setting up the HTTP
server, and gracefully handling operating system interrupt signals (SIGINT, SIGTERM)
to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SADD1990/kkhebrah/internal/app/ai"
	"github.com/SADD1990/kkhebrah/internal/app/assistant"
	"github.com/SADD1990/kkhebrah/internal/app/auth"
	"github.com/SADD1990/kkhebrah/internal/app/messaging"
	"github.com/SADD1990/kkhebrah/internal/app/profile"
	"github.com/SADD1990/kkhebrah/internal/app/session"
	"github.com/SADD1990/kkhebrah/internal/configs"
	"github.com/SADD1990/kkhebrah/internal/handler"
	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("gemini_model", cfg.GeminiModel).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the AI gateway on top of the hosted generative model.
	generator, err := ai.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logx.Fatal(err, "Failed to initialize the generative model client")
	}
	gateway := ai.NewGateway(generator)

	// Initialize application collaborators.
	sessions := session.NewStore()
	accounts := auth.NewSimulatedService(cfg.SimulatedLatency)
	hub := messaging.NewHub(cfg.ExpertReplyDelay)
	registry := assistant.NewRegistry(gateway)
	experts := profile.NewDirectory()

	deps := &handler.AppDeps{
		Config:    cfg,
		Gateway:   gateway,
		Sessions:  sessions,
		Auth:      accounts,
		Threads:   hub,
		Assistant: registry,
		Experts:   experts,
	}

	// Setup HTTP server and routes
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Khebrah API server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()
	registry.Shutdown()

	logx.Info("Server gracefully stopped.")
}

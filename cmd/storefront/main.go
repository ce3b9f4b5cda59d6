// Storefront gateway - the client-side glue of a retail storefront.
// Owns the session and cart stores, serves the client-facing routes locally,
// and relays everything stateful to the external REST backend.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := initLogger()

	// Load configuration
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("backend", cfg.Backend.BaseURL),
		slog.String("environment", cfg.Environment),
		slog.Bool("browser_tls", cfg.Backend.BrowserTLS),
	)

	// Backend API client
	api, err := backend.New(backend.Config{
		BaseURL:    cfg.Backend.BaseURL,
		AdminKey:   cfg.Backend.AdminKey,
		BrowserTLS: cfg.Backend.BrowserTLS,
	})
	if err != nil {
		return fmt.Errorf("creating backend client: %w", err)
	}

	// Singleton stores: session owns identity, cart subscribes to it
	sessionStore := session.NewStore(api, session.NewFileStorage(cfg.StatePath), logger)
	cartStore := cart.NewStore(api, sessionStore, logger)
	sessionStore.Subscribe(func(sess *model.Session) {
		cartStore.HandleSessionChange(ctx, sess)
	})

	checkoutInit := checkout.NewInitiator(api, cartStore, sessionStore, checkout.ReturnURLs{
		Success: cfg.SuccessURL(),
		Cancel:  cfg.CancelURL(),
	}, logger)
	catalogProvider := catalog.NewProvider(api)

	// Pick up a persisted session before serving traffic
	sessionStore.Restore(ctx)

	// Create handler wired to the stores
	h := handler.New(sessionStore, cartStore, checkoutInit, catalogProvider, api, logger)

	// Setup routes
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Apply middleware chain: recovery → request ID → logging → version gate
	// Recovery must be outermost to catch panics from logging middleware
	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.MinClientVersion(logger, cfg.MinClientVersion),
	)(mux)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Channel for server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("gateway starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("gateway stopped")
	return nil
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	// JSON for production (Cloud Logging compatible), text for development
	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

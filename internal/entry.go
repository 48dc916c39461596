// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/graphservice"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/nativeapi"
	"github.com/starford/ansuz/internal/runner"
	"github.com/starford/ansuz/internal/sse"
)

// Version is the gateway version reported by /version.
const Version = "0.1.0"

// Run starts the HTTP gateway with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("tool_bin", cfg.Tool.Bin),
		slog.String("native_api_url", cfg.Native.URL),
		slog.String("log_level", cfg.App.Level().String()))

	if cfg.App.Debug {
		logger.Warn("debug logging enabled; request paths and query strings " +
			"will be recorded in plain text, disable it when done troubleshooting")
	}

	svc := newService(cfg)

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	apiRouter := api.NewRouter(svc, broker, cfg.Auth.Token, Version)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Mount("/", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server with the given options. Logs go to
// stderr; stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	srv := mcpserver.New(newService(cfg), cfg.Auth.Token)

	logger.Info("Starting MCP server on stdio")
	return srv.ServeStdio()
}

// newService wires the CLI runner and native API client behind the graph
// service.
func newService(cfg *Config) *graphservice.Service {
	tool := runner.New(cfg.Tool.Bin, cfg.Tool.Timeout())
	native := nativeapi.New(cfg.Native.URL, cfg.Native.Timeout())
	return graphservice.NewService(tool, native, cfg.Tool.Converter)
}

// newLogger builds the JSON logger, teeing into a size-rotated log file
// when one is configured.
func newLogger(cfg *Config, console io.Writer) *slog.Logger {
	out := console
	if cfg.App.LogFile != "" {
		out = io.MultiWriter(console, &lumberjack.Logger{
			Filename:   cfg.App.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.App.Level(),
	}))
}

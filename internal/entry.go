// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/empchart/internal/api"
	"github.com/starford/empchart/internal/mcpserver"
	"github.com/starford/empchart/internal/storage"
)

// NewServerHandler builds the top-level router: health checks plus the API
// mounted under /api.
func NewServerHandler(rt *Runtime) http.Handler {
	apiRouter := api.NewRouter(rt.Coordinator, api.RouterConfig{
		AuthEnabled: rt.Config.Auth.AuthEnabled(),
		Token:       rt.Config.Auth.Token,
		Events:      rt.Broker,
		Render:      rt.RenderOptions(),
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !rt.Coordinator.Prepared() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"preparing"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)
	return r
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := NewRuntime(opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.Config
	logger := rt.Logger
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.String("app_data_dir", cfg.Storage.AppDataDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt.Coordinator.PrepareData(ctx)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: NewServerHandler(rt),
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()
	g, gCtx := errgroup.WithContext(runCtx)

	// Only the FS backend has files another process can change.
	if rt.watchRoot != "" {
		g.Go(func() error {
			if err := storage.Watch(gCtx, rt.watchRoot, logger, rt.Broker.PublishSlotEvent); err != nil {
				logger.Warn("app data watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

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
		// Stops the watcher after a signal-driven shutdown.
		stopRun()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools on stdin/stdout. Logs go to stderr so they do
// not corrupt the protocol stream.
func RunMCP(ctx context.Context, opts ...Option) error {
	opts = append(opts, WithLogOutput(os.Stderr))
	rt, err := NewRuntime(opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Coordinator.PrepareData(ctx)

	srv := mcpserver.New(rt.Coordinator)
	rt.Logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}

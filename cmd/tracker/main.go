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

	"tracker/internal/api"
	"tracker/internal/cache"
	"tracker/internal/config"
	"tracker/internal/core"
	"tracker/internal/services"
	"tracker/internal/session"
	"tracker/internal/styles"
	"tracker/internal/web"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// A missing .env file is fine; the environment wins either way.
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded environment from .env file")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	sessions, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		logger.Error("Failed to open session store", "error", err, "path", cfg.SessionDBPath)
		os.Exit(1)
	}
	defer sessions.Close()

	client := api.New(cfg.BackendURL, cfg.BackendTimeout)
	categoryCache := cache.New[[]core.Category](cfg.CategoryCacheSize, cfg.CategoryCacheTTL)

	srv := web.NewServer(*cfg, web.Deps{
		Sessions:  sessions,
		Auth:      services.NewAuthService(client),
		Expenses:  services.NewExpenseService(client, categoryCache),
		Dashboard: services.NewDashboardService(client),
		Monthly:   services.NewMonthlyBreakdownService(client),
		Styles:    styles.Default(),
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting tracker server", "port", cfg.Port, "backend_url", cfg.BackendURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

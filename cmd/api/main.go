// Package main is the entry point for the analytics API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forgeplay/analytics/internal/api"
	"github.com/forgeplay/analytics/internal/catalog"
	"github.com/forgeplay/analytics/internal/config"
	"github.com/forgeplay/analytics/internal/dashboard"
	"github.com/forgeplay/analytics/internal/db"
	"github.com/forgeplay/analytics/internal/event"
	"github.com/forgeplay/analytics/internal/health"
	"github.com/forgeplay/analytics/internal/middleware"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configFile := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("Forgeplay Analytics API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "config", cfg.LogSummary())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	titles, err := dashboard.NewTitleCache(cfg.TitleCacheSize)
	if err != nil {
		logger.Error("title cache init failed", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpMetrics := middleware.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		logger.Error("http metrics registration failed", "error", err)
		os.Exit(1)
	}
	computeMetrics := dashboard.NewMetrics()
	if err := computeMetrics.Register(registry); err != nil {
		logger.Error("compute metrics registration failed", "error", err)
		os.Exit(1)
	}

	svc := dashboard.NewService(
		event.NewPostgresSource(conn),
		catalog.NewPostgresCatalog(conn),
		titles,
		logger,
		computeMetrics,
	)

	mux := http.NewServeMux()

	healthHandler := health.NewHandler(logger, map[string]health.Checker{
		"database": health.NewDBChecker(conn),
	})
	mux.HandleFunc("/health", healthHandler.Live)
	mux.HandleFunc("/ready", healthHandler.Ready)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	api.NewHandlers(svc, logger).Register(mux)

	// Apply middleware: RequestID -> CallerID -> Logging -> HTTPMetrics
	handler := middleware.RequestID(
		middleware.CallerID(
			middleware.Logging(logger)(
				middleware.HTTPMetrics(httpMetrics)(mux))))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/tphummel/homekeep/internal/config"
	"github.com/tphummel/homekeep/internal/db"
	"github.com/tphummel/homekeep/internal/equipment"
	"github.com/tphummel/homekeep/internal/handlers"
	"github.com/tphummel/homekeep/internal/idgen"
	"github.com/tphummel/homekeep/internal/metrics"
	"github.com/tphummel/homekeep/internal/middleware"
	"github.com/tphummel/homekeep/internal/setup"
	"github.com/tphummel/homekeep/internal/tasks"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

// newServer wires the full handler chain for cfg on top of database.
func newServer(cfg *config.Config, database *db.DB, reg *prometheus.Registry, logger *slog.Logger) (http.Handler, error) {
	newID, err := idgen.ForScheme(cfg.IDScheme)
	if err != nil {
		return nil, err
	}

	h := &handlers.Handler{
		DB: database,
		Setup: &setup.Service{
			Store:        database,
			Equipment:    equipment.Defaulter{NewID: newID},
			Tasks:        tasks.Scheduler{NewID: newID},
			Logger:       logger,
			PreviewTasks: cfg.PreviewTasks,
		},
		Version: version,
		Commit:  commit,
	}

	mux := http.NewServeMux()
	h.Routes(mux, cfg.APIToken)

	// Prometheus metrics, no auth
	mux.Handle("GET /metrics", metrics.Handler(reg))

	skip := func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	}
	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	return middleware.RequestLogger(logger, skip, middleware.RateLimit(limiter, mux)), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	reg := prometheus.NewRegistry()
	metrics.Register(reg, database)

	handler, err := newServer(cfg, database, reg, logger)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "version", version, "id_scheme", cfg.IDScheme)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	if err := database.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}
	logger.Info("server stopped")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edviva/impactboard/internal/adapters/http/api"
	"github.com/edviva/impactboard/internal/adapters/repository"
	"github.com/edviva/impactboard/internal/adapters/source"
	"github.com/edviva/impactboard/internal/app"
	"github.com/edviva/impactboard/internal/config"
	"github.com/edviva/impactboard/pkg/logger"
	"github.com/edviva/impactboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	src, err := buildSource(ctx, cfg, log)
	if err != nil {
		os.Stderr.WriteString("failed to open record source: " + err.Error() + "\n")
		return
	}

	store := repository.NewStore()
	svc := app.New(
		app.WithLogger(log.Named("app")),
		app.WithSource(src),
		app.WithStore(store),
		app.WithCohorts(cfg.Cohorts),
		app.WithTables(cfg.Tables),
		app.WithIdentifierTables(cfg.IdentifierTables),
		app.WithInvestmentTable(cfg.InvestmentTable),
		app.WithAliases(cfg.FieldAliases),
		app.WithFetchWorkers(cfg.FetchWorkers),
		app.WithRefreshInterval(time.Duration(cfg.RefreshIntervalSeconds)*time.Second),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildSource opens the configured snapshot, falling back to an empty
// in-memory source when none is configured.
func buildSource(ctx context.Context, cfg *config.Config, log logger.Logger) (source.Source, error) {
	if cfg.SnapshotPath == "" {
		log.Warn(ctx, "no snapshot_path configured; starting with an empty record source")
		return source.NewStaticSource(nil), nil
	}
	return source.NewSnapshotSource(cfg.SnapshotPath)
}

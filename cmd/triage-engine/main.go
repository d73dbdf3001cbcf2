package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/triagestack/triage-engine/internal/api"
	"github.com/triagestack/triage-engine/internal/cache"
	"github.com/triagestack/triage-engine/internal/classifier"
	"github.com/triagestack/triage-engine/internal/config"
	"github.com/triagestack/triage-engine/internal/detector"
	"github.com/triagestack/triage-engine/internal/engine"
	"github.com/triagestack/triage-engine/internal/incident"
	"github.com/triagestack/triage-engine/internal/logstore"
	"github.com/triagestack/triage-engine/internal/metrics"
	"github.com/triagestack/triage-engine/internal/notify"
	"github.com/triagestack/triage-engine/internal/planner"
	"github.com/triagestack/triage-engine/internal/recommend"
	"github.com/triagestack/triage-engine/internal/rules"
	"github.com/triagestack/triage-engine/internal/storage"
	"github.com/triagestack/triage-engine/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting triage-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	ruleSet, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		logger.Error("failed to load rule pack", slog.String("path", cfg.Rules.Path), slog.Any("error", err))
		os.Exit(1)
	}

	pipeline := engine.NewPipeline(
		logger,
		classifier.New(ruleSet),
		detector.New(),
		incident.New(ruleSet),
		planner.New(ruleSet),
		recommend.New(ruleSet),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *storage.Store
	if cfg.Storage.DSN != "" {
		var cacheProvider cache.Provider = cache.NoopProvider{}
		if cfg.Cache.Enabled {
			cacheProvider = cache.NewMemoryProvider(cfg.Cache.MaxItems)
		}
		store, err = storage.New(ctx, cfg.Storage.DSN, logger, storage.Options{
			MaxConns:     cfg.Storage.MaxConns,
			QueryTimeout: cfg.Storage.QueryTimeout,
			Cache:        cacheProvider,
			ReportTTL:    cfg.Cache.ReportTTL,
		})
		if err != nil {
			logger.Error("failed to connect report storage", slog.Any("error", err))
			os.Exit(1)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure storage schema", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Info("report storage disabled, running stateless")
	}

	var logSource api.LogSource
	if cfg.LogStore.Path != "" {
		logs, err := logstore.Open(cfg.LogStore.Path)
		if err != nil {
			logger.Error("failed to open log store", slog.String("path", cfg.LogStore.Path), slog.Any("error", err))
			os.Exit(1)
		}
		defer logs.Close()
		logSource = logs
		logger.Info("log store attached", slog.String("path", cfg.LogStore.Path))
	} else {
		logger.Info("log store disabled, only inline batches accepted")
	}

	notifier := notify.New(cfg.Notifier.URL, cfg.Notifier.Timeout, logger)
	if notifier.Enabled() {
		logger.Info("report webhook enabled", slog.String("url", cfg.Notifier.URL))
	}

	var reportStore api.ReportStore
	if store != nil {
		reportStore = store
	}
	service := api.NewTriageService(logger, pipeline, reportStore, notifier, logSource)
	server := api.NewServer(logger, service, cfg.Server).HTTPServer()

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		logger.Info("http server listening", slog.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server exited", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", slog.Any("error", err))
	}

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("triage-engine stopped")
}

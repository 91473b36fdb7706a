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

	"github.com/mishinyura/transaction-risk-service/internal/api"
	"github.com/mishinyura/transaction-risk-service/internal/config"
	"github.com/mishinyura/transaction-risk-service/internal/events"
	eventskafka "github.com/mishinyura/transaction-risk-service/internal/events/kafka"
	"github.com/mishinyura/transaction-risk-service/internal/processor"
	"github.com/mishinyura/transaction-risk-service/internal/repository"
	"github.com/mishinyura/transaction-risk-service/internal/repository/memory"
	"github.com/mishinyura/transaction-risk-service/internal/repository/postgres"
	"github.com/mishinyura/transaction-risk-service/internal/service"
	"github.com/mishinyura/transaction-risk-service/pkg/crypto"
	"github.com/mishinyura/transaction-risk-service/pkg/metrics"
)

const (
	appName = "transaction-risk-service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel)
	logger.Info("Starting application",
		slog.String("name", appName),
		slog.String("env", cfg.Env))

	txRepo, accountRepo, cleanup, err := setupRepositories(cfg, logger)
	if err != nil {
		logger.Error("Failed to set up storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	publisher := setupPublisher(cfg, logger)

	alertService := service.NewAlertService(
		[]service.Notifier{&service.LogNotifier{Logger: logger}},
		cfg.AlertWorkers,
		cfg.AlertRetries,
		logger,
	)
	alertService.Start()

	txProcessor := processor.NewTransactionProcessor(
		txRepo,
		accountRepo,
		cfg.Weights,
		cfg.Analyzer,
		publisher,
		alertService,
		logger,
	)

	metricsCollector := metrics.NewMetricsCollector(logger)
	apiHandler := api.NewAPIHandler(txProcessor, metricsCollector, logger)

	metricsServer := metricsCollector.StartMetricsServer(cfg.MetricsAddr)
	httpServer := startHTTPServer(cfg.Addr, apiHandler, logger)

	waitForShutdown(logger, httpServer, metricsServer, alertService)
	logger.Info("Application shutdown complete")
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func setupRepositories(cfg *config.Config, logger *slog.Logger) (repository.TransactionRepository, repository.AccountRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("No DATABASE_URL configured, using in-memory storage")
		return memory.NewTransactionRepository(), memory.NewAccountRepository(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	logger.Info("Connected to PostgreSQL")
	return postgres.NewTransactionRepository(db), postgres.NewAccountRepository(db), func() { db.Close() }, nil
}

func setupPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No KAFKA_BROKERS configured, flagged events will not be published")
		return events.NoopPublisher{}
	}

	var signer *crypto.Signer
	if cfg.EventSecret != "" {
		signer = crypto.NewSigner(cfg.EventSecret, logger)
	}

	logger.Info("Publishing flagged events to Kafka",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.String("topic", cfg.KafkaTopic))
	return eventskafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, signer)
}

func startHTTPServer(addr string, apiHandler *api.APIHandler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	apiHandler.RegisterRoutes(mux)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": "%s", "status": "ok"}`, appName)
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(
	logger *slog.Logger,
	httpServer *http.Server,
	metricsServer *http.Server,
	alertService *service.AlertService,
) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}

	if err := alertService.Shutdown(ctx); err != nil {
		logger.Error("Alert service shutdown failed", slog.String("error", err.Error()))
	}
}

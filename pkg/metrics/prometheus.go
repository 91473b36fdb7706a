package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsCollector struct {
	registry              *prometheus.Registry
	transactionsProcessed prometheus.Counter
	transactionsFlagged   prometheus.Counter
	transactionsFailed    prometheus.Counter
	processingDuration    prometheus.Histogram
	riskScoreDistribution prometheus.Histogram
	accountScores         prometheus.Histogram
	logger                *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	collector := &MetricsCollector{
		registry: registry,
		transactionsProcessed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "transactions_processed_total",
			Help: "Total number of processed transactions",
		}),
		transactionsFlagged: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "transactions_flagged_total",
			Help: "Total number of transactions flagged as fraudulent",
		}),
		transactionsFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "transactions_failed_total",
			Help: "Total number of transactions that failed processing",
		}),
		processingDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "transaction_processing_duration_seconds",
			Help:    "Time taken to analyze and persist a transaction",
			Buckets: prometheus.DefBuckets,
		}),
		riskScoreDistribution: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "transaction_risk_score_distribution",
			Help:    "Distribution of composite transaction risk scores",
			Buckets: []float64{0, 0.2, 0.4, 0.6, 0.8, 1.0},
		}),
		accountScores: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "account_score_distribution",
			Help:    "Distribution of recomputed account reputation scores",
			Buckets: []float64{0, 20, 40, 60, 80, 100},
		}),
		logger: logger,
	}

	return collector
}

func (m *MetricsCollector) RecordTransaction(duration time.Duration, riskScore float64, flagged, success bool) {
	if success {
		m.transactionsProcessed.Inc()
		m.riskScoreDistribution.Observe(riskScore)
		if flagged {
			m.transactionsFlagged.Inc()
		}
	} else {
		m.transactionsFailed.Inc()
	}

	m.processingDuration.Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordAccountScore(score float64) {
	m.accountScores.Observe(score)
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}

func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	m.logger.Info("Metrics collector shutdown complete")
	return nil
}

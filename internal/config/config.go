// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mishinyura/transaction-risk-service/internal/scoring"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Addr        string
	MetricsAddr string
	Env         string // "development", "staging", "production"
	LogLevel    string

	// Database. Optional: in-memory repositories are used when unset.
	DatabaseURL string

	// Kafka. Optional: events are discarded when no brokers are set.
	KafkaBrokers []string
	KafkaTopic   string

	// EventSecret signs published event payloads when set.
	EventSecret string

	// Alert delivery
	AlertWorkers int
	AlertRetries int

	// Scoring weights and analyzer thresholds. Every value can be overridden
	// through the environment without code changes.
	Weights  scoring.Weights
	Analyzer scoring.AnalyzerConfig
}

const (
	DefaultAddr        = ":8080"
	DefaultMetricsAddr = ":9090"
	DefaultEnv         = "development"
	DefaultLogLevel    = "info"
	DefaultKafkaTopic  = "transaction_flagged"
)

// Load reads configuration from environment variables. A .env file is loaded
// first if present (for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	weights := scoring.DefaultWeights()
	weights.Count = getEnvFloat("SCORE_WEIGHT_COUNT", weights.Count)
	weights.Frequency = getEnvFloat("SCORE_WEIGHT_FREQUENCY", weights.Frequency)
	weights.Quality = getEnvFloat("SCORE_WEIGHT_QUALITY", weights.Quality)
	weights.TypeDiversity = getEnvFloat("SCORE_WEIGHT_TYPE", weights.TypeDiversity)
	weights.Fraud = getEnvFloat("SCORE_WEIGHT_FRAUD", weights.Fraud)
	weights.Amount = getEnvFloat("SCORE_WEIGHT_AMOUNT", weights.Amount)

	analyzer := scoring.DefaultAnalyzerConfig()
	analyzer.HighRiskThreshold = getEnvFloat("RISK_HIGH_RISK_THRESHOLD", analyzer.HighRiskThreshold)
	analyzer.AmountThreshold = getEnvFloat("RISK_AMOUNT_THRESHOLD", analyzer.AmountThreshold)
	analyzer.AmountIncreaseThreshold = getEnvFloat("RISK_AMOUNT_INCREASE_THRESHOLD", analyzer.AmountIncreaseThreshold)
	analyzer.FraudRiskThreshold = getEnvFloat("RISK_FRAUD_THRESHOLD", analyzer.FraudRiskThreshold)
	analyzer.WindowDays = getEnvInt("RISK_WINDOW_DAYS", analyzer.WindowDays)
	analyzer.ReceiverRiskWeight = getEnvFloat("RISK_WEIGHT_RECEIVER", analyzer.ReceiverRiskWeight)
	analyzer.AmountAnomalyWeight = getEnvFloat("RISK_WEIGHT_AMOUNT", analyzer.AmountAnomalyWeight)
	analyzer.LocationAnomalyWeight = getEnvFloat("RISK_WEIGHT_LOCATION", analyzer.LocationAnomalyWeight)
	analyzer.DeviceAnomalyWeight = getEnvFloat("RISK_WEIGHT_DEVICE", analyzer.DeviceAnomalyWeight)

	cfg := &Config{
		Addr:         getEnv("ADDR", DefaultAddr),
		MetricsAddr:  getEnv("METRICS_ADDR", DefaultMetricsAddr),
		Env:          getEnv("ENV", DefaultEnv),
		LogLevel:     getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", DefaultKafkaTopic),
		EventSecret:  os.Getenv("EVENT_SECRET"),
		AlertWorkers: getEnvInt("ALERT_WORKERS", 3),
		AlertRetries: getEnvInt("ALERT_RETRIES", 3),
		Weights:      weights,
		Analyzer:     analyzer,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks for configuration values the scorers cannot work with.
func (c *Config) Validate() error {
	if c.Analyzer.WindowDays <= 0 {
		return fmt.Errorf("RISK_WINDOW_DAYS must be positive")
	}
	if c.Analyzer.FraudRiskThreshold < 0 || c.Analyzer.FraudRiskThreshold > 1 {
		return fmt.Errorf("RISK_FRAUD_THRESHOLD must be in [0,1]")
	}
	for name, w := range map[string]float64{
		"SCORE_WEIGHT_COUNT":     c.Weights.Count,
		"SCORE_WEIGHT_FREQUENCY": c.Weights.Frequency,
		"SCORE_WEIGHT_QUALITY":   c.Weights.Quality,
		"SCORE_WEIGHT_TYPE":      c.Weights.TypeDiversity,
		"SCORE_WEIGHT_FRAUD":     c.Weights.Fraud,
		"SCORE_WEIGHT_AMOUNT":    c.Weights.Amount,
	} {
		if w < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

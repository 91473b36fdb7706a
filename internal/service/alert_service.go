package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FraudAlert describes one flagged transaction for review channels.
type FraudAlert struct {
	TransactionID   string
	SenderAccountID string
	RiskScore       float64
	Signals         []string
	CreatedAt       time.Time
}

// Notifier delivers an alert to one channel.
type Notifier interface {
	Notify(alert FraudAlert) error
}

// AlertService fans flagged transactions out to review channels through a
// small worker pool. Enqueueing never blocks transaction processing: when
// the queue is full the alert is dropped and logged.
type AlertService struct {
	notifiers  []Notifier
	queue      chan FraudAlert
	workers    int
	maxRetries int
	shutdown   chan struct{}
	wg         sync.WaitGroup
	logger     *slog.Logger
}

func NewAlertService(notifiers []Notifier, workers, maxRetries int, logger *slog.Logger) *AlertService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertService{
		notifiers:  notifiers,
		queue:      make(chan FraudAlert, 1000),
		workers:    workers,
		maxRetries: maxRetries,
		shutdown:   make(chan struct{}),
		logger:     logger,
	}
}

func (s *AlertService) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Enqueue submits an alert for delivery. Returns false when the queue is
// full or the service is shutting down.
func (s *AlertService) Enqueue(alert FraudAlert) bool {
	select {
	case <-s.shutdown:
		return false
	default:
	}

	select {
	case s.queue <- alert:
		return true
	default:
		s.logger.Warn("Alert queue full, dropping alert",
			slog.String("transaction_id", alert.TransactionID))
		return false
	}
}

func (s *AlertService) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.shutdown:
			return
		case alert := <-s.queue:
			s.deliver(alert)
		}
	}
}

func (s *AlertService) deliver(alert FraudAlert) {
	for _, notifier := range s.notifiers {
		var err error
		for attempt := 0; attempt <= s.maxRetries; attempt++ {
			if err = notifier.Notify(alert); err == nil {
				break
			}
			time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
		}
		if err != nil {
			s.logger.Error("Alert delivery failed",
				slog.String("transaction_id", alert.TransactionID),
				slog.String("error", err.Error()))
		}
	}
}

func (s *AlertService) Shutdown(ctx context.Context) error {
	close(s.shutdown)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Alert service shutdown complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("alert service shutdown: %w", ctx.Err())
	}
}

// LogNotifier writes alerts to the structured log. It is the default channel
// when no external integrations are configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Notify(alert FraudAlert) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("Fraud alert",
		slog.String("transaction_id", alert.TransactionID),
		slog.String("sender_account_id", alert.SenderAccountID),
		slog.Float64("risk_score", alert.RiskScore),
		slog.Any("signals", alert.Signals))
	return nil
}

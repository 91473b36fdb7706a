package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Publisher emits domain events for downstream consumers (case review,
// analytics). Publishing failures must not block transaction persistence.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// TransactionFlagged is emitted when the risk analyzer marks a transaction
// as fraudulent.
type TransactionFlagged struct {
	TransactionID     string          `json:"transaction_id"`
	SenderAccountID   string          `json:"sender_account_id"`
	ReceiverAccountID string          `json:"receiver_account_id"`
	Amount            decimal.Decimal `json:"amount"`
	RiskScore         float64         `json:"risk_score"`
	Signals           []string        `json:"signals"`
	FlaggedAt         time.Time       `json:"flagged_at"`
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event any) error { return nil }

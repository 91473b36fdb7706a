package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
)

// HistoryReader supplies the sender baseline data the analyzer compares
// against. Implementations own retrieval concerns (storage, cancellation,
// snapshot isolation); the analyzer only reads what it is given.
type HistoryReader interface {
	// RecentSenderHistory returns the sender's transactions since the given
	// point in time.
	RecentSenderHistory(ctx context.Context, senderAccountID string, since time.Time) ([]domain.Transaction, error)
	// AccountRisk returns the cached risk score for an account, 0.0 when no
	// score has been recorded.
	AccountRisk(ctx context.Context, accountID string) (float64, error)
}

// Assessment is the outcome of analyzing one candidate transaction.
type Assessment struct {
	RiskScore float64
	Fraud     bool
	Signals   []string
}

// TransactionRiskAnalyzer evaluates a not-yet-persisted transaction against
// the sender's recent behavior. Four independent boolean checks each
// contribute a fixed weight when they fire; there is no partial credit.
type TransactionRiskAnalyzer struct {
	cfg     AnalyzerConfig
	history HistoryReader
	logger  *slog.Logger
}

func NewTransactionRiskAnalyzer(cfg AnalyzerConfig, history HistoryReader, logger *slog.Logger) *TransactionRiskAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionRiskAnalyzer{
		cfg:     cfg,
		history: history,
		logger:  logger,
	}
}

// Analyze fetches the trailing sender window and the receiver's cached risk,
// runs the anomaly checks, and returns the composite assessment. The caller
// is responsible for stamping Assessment.Fraud onto the transaction before
// persistence; the analyzer never writes.
func (a *TransactionRiskAnalyzer) Analyze(ctx context.Context, tx *domain.Transaction) (Assessment, error) {
	since := time.Now().AddDate(0, 0, -a.cfg.WindowDays)
	recent, err := a.history.RecentSenderHistory(ctx, tx.SenderAccountID, since)
	if err != nil {
		return Assessment{}, fmt.Errorf("fetch sender history: %w", err)
	}

	receiverRisk, err := a.history.AccountRisk(ctx, tx.ReceiverAccountID)
	if err != nil {
		return Assessment{}, fmt.Errorf("fetch receiver risk: %w", err)
	}

	var assessment Assessment
	if receiverRisk >= a.cfg.HighRiskThreshold {
		assessment.add(a.cfg.ReceiverRiskWeight, "receiver_risk")
	}
	if a.isAmountAnomaly(tx, recent) {
		assessment.add(a.cfg.AmountAnomalyWeight, "amount_anomaly")
	}
	if a.isLocationAnomaly(tx, recent) {
		assessment.add(a.cfg.LocationAnomalyWeight, "location_anomaly")
	}
	if a.isDeviceAnomaly(tx, recent) {
		assessment.add(a.cfg.DeviceAnomalyWeight, "device_anomaly")
	}

	assessment.Fraud = assessment.RiskScore > a.cfg.FraudRiskThreshold
	if assessment.Fraud {
		a.logger.WarnContext(ctx, "Transaction assessed as fraudulent",
			slog.String("transaction_id", tx.ID),
			slog.String("sender_account_id", tx.SenderAccountID),
			slog.Float64("risk_score", assessment.RiskScore))
	}

	return assessment, nil
}

func (as *Assessment) add(weight float64, signal string) {
	as.RiskScore += weight
	as.Signals = append(as.Signals, signal)
}

// isAmountAnomaly fires only above the absolute amount floor, and only when
// the sender has a non-zero recent average to compare against.
func (a *TransactionRiskAnalyzer) isAmountAnomaly(tx *domain.Transaction, recent []domain.Transaction) bool {
	if !tx.Amount.GreaterThan(decimal.NewFromFloat(a.cfg.AmountThreshold)) {
		return false
	}
	if len(recent) == 0 {
		return false
	}

	sum := decimal.Zero
	for _, h := range recent {
		sum = sum.Add(h.Amount)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(recent))))
	if avg.IsZero() {
		return false
	}

	limit := avg.Mul(decimal.NewFromFloat(a.cfg.AmountIncreaseThreshold))
	return tx.Amount.GreaterThan(limit)
}

// isLocationAnomaly fires when the sender has a location baseline and the
// candidate's geolocation is not in it. An empty baseline never fires: the
// first transaction is never anomalous by location.
func (a *TransactionRiskAnalyzer) isLocationAnomaly(tx *domain.Transaction, recent []domain.Transaction) bool {
	seen := make(map[string]struct{}, len(recent))
	for _, h := range recent {
		seen[h.Geolocation] = struct{}{}
	}
	if len(seen) == 0 {
		return false
	}
	_, known := seen[tx.Geolocation]
	return !known
}

// isDeviceAnomaly mirrors the location check over the distinct device set.
func (a *TransactionRiskAnalyzer) isDeviceAnomaly(tx *domain.Transaction, recent []domain.Transaction) bool {
	seen := make(map[domain.Device]struct{}, len(recent))
	for _, h := range recent {
		seen[h.Device] = struct{}{}
	}
	if len(seen) == 0 {
		return false
	}
	_, known := seen[tx.Device]
	return !known
}

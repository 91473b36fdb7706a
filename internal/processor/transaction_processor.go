package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
	"github.com/mishinyura/transaction-risk-service/internal/events"
	"github.com/mishinyura/transaction-risk-service/internal/repository"
	"github.com/mishinyura/transaction-risk-service/internal/scoring"
	"github.com/mishinyura/transaction-risk-service/internal/service"
	"github.com/mishinyura/transaction-risk-service/pkg/validator"
)

// TransactionProcessor runs the submission pipeline: validate, analyze,
// stamp the fraud flag, persist, then notify downstream consumers. The
// analyzer always runs before persistence so the stored record carries the
// final flag.
type TransactionProcessor struct {
	txRepo      repository.TransactionRepository
	accountRepo repository.AccountRepository
	analyzer    *scoring.TransactionRiskAnalyzer
	calculator  *scoring.AccountScoreCalculator
	validator   *validator.TransactionValidator
	publisher   events.Publisher
	alerts      *service.AlertService
	logger      *slog.Logger
}

func NewTransactionProcessor(
	txRepo repository.TransactionRepository,
	accountRepo repository.AccountRepository,
	weights scoring.Weights,
	analyzerCfg scoring.AnalyzerConfig,
	publisher events.Publisher,
	alerts *service.AlertService,
	logger *slog.Logger,
) *TransactionProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	history := repoHistory{transactions: txRepo, accounts: accountRepo}

	return &TransactionProcessor{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		analyzer:    scoring.NewTransactionRiskAnalyzer(analyzerCfg, history, logger),
		calculator:  scoring.NewAccountScoreCalculator(weights),
		validator:   validator.NewTransactionValidator(),
		publisher:   publisher,
		alerts:      alerts,
		logger:      logger,
	}
}

// SubmitTransaction analyzes and persists a new transaction, returning the
// risk assessment stamped onto it.
func (p *TransactionProcessor) SubmitTransaction(ctx context.Context, tx *domain.Transaction) (scoring.Assessment, error) {
	if err := p.validator.ValidateTransaction(tx); err != nil {
		return scoring.Assessment{}, fmt.Errorf("validation failed: %w", err)
	}

	assessment, err := p.analyzer.Analyze(ctx, tx)
	if err != nil {
		return scoring.Assessment{}, fmt.Errorf("risk analysis failed: %w", err)
	}
	tx.FraudFlag = assessment.Fraud

	if err := p.txRepo.Save(ctx, tx); err != nil {
		return scoring.Assessment{}, err
	}

	p.logger.InfoContext(ctx, "Transaction persisted",
		slog.String("transaction_id", tx.ID),
		slog.String("sender_account_id", tx.SenderAccountID),
		slog.Float64("risk_score", assessment.RiskScore),
		slog.Bool("fraud_flag", tx.FraudFlag))

	if assessment.Fraud {
		p.notifyFlagged(ctx, tx, assessment)
	}

	return assessment, nil
}

// notifyFlagged publishes the flagged event and enqueues a review alert.
// Delivery failures are logged, never propagated: the transaction is already
// persisted.
func (p *TransactionProcessor) notifyFlagged(ctx context.Context, tx *domain.Transaction, assessment scoring.Assessment) {
	event := events.TransactionFlagged{
		TransactionID:     tx.ID,
		SenderAccountID:   tx.SenderAccountID,
		ReceiverAccountID: tx.ReceiverAccountID,
		Amount:            tx.Amount,
		RiskScore:         assessment.RiskScore,
		Signals:           assessment.Signals,
		FlaggedAt:         time.Now(),
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish flagged event",
			slog.String("transaction_id", tx.ID),
			slog.String("error", err.Error()))
	}

	if p.alerts != nil {
		p.alerts.Enqueue(service.FraudAlert{
			TransactionID:   tx.ID,
			SenderAccountID: tx.SenderAccountID,
			RiskScore:       assessment.RiskScore,
			Signals:         assessment.Signals,
			CreatedAt:       time.Now(),
		})
	}
}

func (p *TransactionProcessor) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return p.txRepo.GetByID(ctx, id)
}

func (p *TransactionProcessor) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return p.txRepo.GetAll(ctx)
}

func (p *TransactionProcessor) CreateAccount(ctx context.Context, account *domain.Account) error {
	return p.accountRepo.Save(ctx, account)
}

func (p *TransactionProcessor) GetAccounts(ctx context.Context) ([]domain.Account, error) {
	return p.accountRepo.GetAll(ctx)
}

// AccountScore recomputes the account's reputation score from its full
// sent+received history and persists the snapshot. Recompute-on-read is the
// refresh policy: the cached value is eventually consistent and is refreshed
// every time the score is requested, not on every write.
func (p *TransactionProcessor) AccountScore(ctx context.Context, accountID string) (float64, error) {
	if _, err := p.accountRepo.GetByID(ctx, accountID); err != nil {
		return 0, err
	}

	transactions, err := p.txRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("fetch account history: %w", err)
	}

	score := p.calculator.Compute(transactions)

	if err := p.accountRepo.UpdateRisk(ctx, accountID, score); err != nil {
		return 0, fmt.Errorf("persist score snapshot: %w", err)
	}

	p.logger.InfoContext(ctx, "Account score recomputed",
		slog.String("account_id", accountID),
		slog.Float64("score", score),
		slog.Int("history_size", len(transactions)))

	return score, nil
}

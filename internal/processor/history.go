package processor

import (
	"context"
	"errors"
	"time"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
	"github.com/mishinyura/transaction-risk-service/internal/repository"
	"github.com/mishinyura/transaction-risk-service/internal/scoring"
)

// repoHistory adapts the repositories to the analyzer's HistoryReader.
type repoHistory struct {
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
}

var _ scoring.HistoryReader = repoHistory{}

func (h repoHistory) RecentSenderHistory(ctx context.Context, senderAccountID string, since time.Time) ([]domain.Transaction, error) {
	return h.transactions.GetBySenderSince(ctx, senderAccountID, since)
}

// AccountRisk treats an unknown receiver as unscored rather than an error:
// the receiver-risk signal simply cannot fire.
func (h repoHistory) AccountRisk(ctx context.Context, accountID string) (float64, error) {
	risk, err := h.accounts.GetRisk(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	return risk, err
}

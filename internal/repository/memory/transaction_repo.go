package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
	"github.com/mishinyura/transaction-risk-service/internal/repository"
)

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	accountIndex map[string][]string
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]*domain.Transaction),
		accountIndex: make(map[string][]string),
	}
}

func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[tx.ID]; exists {
		return fmt.Errorf("%w: transaction %s", repository.ErrDuplicate, tx.ID)
	}

	stored := *tx
	stored.CreatedAt = time.Now()
	r.transactions[tx.ID] = &stored

	r.accountIndex[tx.SenderAccountID] = append(r.accountIndex[tx.SenderAccountID], tx.ID)
	if tx.ReceiverAccountID != tx.SenderAccountID {
		r.accountIndex[tx.ReceiverAccountID] = append(r.accountIndex[tx.ReceiverAccountID], tx.ID)
	}

	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, exists := r.transactions[id]
	if !exists {
		return nil, fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	copied := *tx
	return &copied, nil
}

func (r *TransactionRepository) GetByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.accountIndex[accountID]
	result := make([]domain.Transaction, 0, len(ids))
	for _, id := range ids {
		result = append(result, *r.transactions[id])
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result, nil
}

func (r *TransactionRepository) GetBySenderSince(ctx context.Context, senderAccountID string, since time.Time) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Transaction
	for _, id := range r.accountIndex[senderAccountID] {
		tx := r.transactions[id]
		if tx.SenderAccountID == senderAccountID && !tx.Timestamp.Before(since) {
			result = append(result, *tx)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result, nil
}

func (r *TransactionRepository) GetAll(ctx context.Context) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Transaction, 0, len(r.transactions))
	for _, tx := range r.transactions {
		result = append(result, *tx)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result, nil
}

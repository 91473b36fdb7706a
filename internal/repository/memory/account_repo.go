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

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", repository.ErrDuplicate, account.AccountID)
	}

	stored := *account
	stored.CreatedAt = time.Now()
	r.accounts[account.AccountID] = &stored

	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	copied := *account
	return &copied, nil
}

func (r *AccountRepository) GetAll(ctx context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		result = append(result, *account)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].AccountID < result[j].AccountID
	})

	return result, nil
}

func (r *AccountRepository) GetRisk(ctx context.Context, id string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return 0, fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	return account.Risk, nil
}

func (r *AccountRepository) UpdateRisk(ctx context.Context, id string, risk float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}

	account.Risk = risk
	return nil
}

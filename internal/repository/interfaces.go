package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
)

type TransactionRepository interface {
	Save(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// GetByAccount returns every transaction the account participated in,
	// as sender or receiver, ordered by timestamp ascending.
	GetByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
	// GetBySenderSince returns the sender's transactions with a timestamp at
	// or after the given point in time.
	GetBySenderSince(ctx context.Context, senderAccountID string, since time.Time) ([]domain.Transaction, error)
	GetAll(ctx context.Context) ([]domain.Transaction, error)
}

type AccountRepository interface {
	Save(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetAll(ctx context.Context) ([]domain.Account, error)
	GetRisk(ctx context.Context, id string) (float64, error)
	UpdateRisk(ctx context.Context, id string, risk float64) error
}

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)

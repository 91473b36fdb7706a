package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
	"github.com/mishinyura/transaction-risk-service/internal/repository"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	const query = `
		INSERT INTO accounts (account_id, first_name, last_name, middle_name, risk)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		account.AccountID,
		account.FirstName,
		account.LastName,
		account.MiddleName,
		account.Risk,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: account %s", repository.ErrDuplicate, account.AccountID)
		}
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
		SELECT account_id, first_name, last_name, middle_name, risk, created_at
		FROM accounts WHERE account_id = $1`

	var account domain.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.AccountID,
		&account.FirstName,
		&account.LastName,
		&account.MiddleName,
		&account.Risk,
		&account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) GetAll(ctx context.Context) ([]domain.Account, error) {
	const query = `
		SELECT account_id, first_name, last_name, middle_name, risk, created_at
		FROM accounts ORDER BY account_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.AccountID,
			&account.FirstName,
			&account.LastName,
			&account.MiddleName,
			&account.Risk,
			&account.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		result = append(result, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return result, nil
}

func (r *AccountRepository) GetRisk(ctx context.Context, id string) (float64, error) {
	const query = `SELECT risk FROM accounts WHERE account_id = $1`

	var risk float64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&risk)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	if err != nil {
		return 0, fmt.Errorf("get account risk: %w", err)
	}
	return risk, nil
}

func (r *AccountRepository) UpdateRisk(ctx context.Context, id string, risk float64) error {
	const query = `UPDATE accounts SET risk = $2 WHERE account_id = $1`

	res, err := r.db.ExecContext(ctx, query, id, risk)
	if err != nil {
		return fmt.Errorf("update account risk: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	return nil
}

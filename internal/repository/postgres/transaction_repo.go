package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
	"github.com/mishinyura/transaction-risk-service/internal/repository"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, sender_account_id, receiver_account_id, amount, type, timestamp, status, fraud_flag, geolocation, device, created_at`

func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	const query = `
		INSERT INTO transactions (id, sender_account_id, receiver_account_id, amount, type, timestamp, status, fraud_flag, geolocation, device)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.SenderAccountID,
		tx.ReceiverAccountID,
		tx.Amount,
		string(tx.Type),
		tx.Timestamp,
		string(tx.Status),
		tx.FraudFlag,
		tx.Geolocation,
		string(tx.Device),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: transaction %s", repository.ErrDuplicate, tx.ID)
		}
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *TransactionRepository) GetByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE sender_account_id = $1 OR receiver_account_id = $1
		ORDER BY timestamp`

	return r.queryTransactions(ctx, query, accountID)
}

func (r *TransactionRepository) GetBySenderSince(ctx context.Context, senderAccountID string, since time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE sender_account_id = $1 AND timestamp >= $2
		ORDER BY timestamp`

	return r.queryTransactions(ctx, query, senderAccountID, since)
}

func (r *TransactionRepository) GetAll(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY timestamp`

	return r.queryTransactions(ctx, query)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		tx       domain.Transaction
		txType   string
		txStatus string
		device   string
	)
	err := row.Scan(
		&tx.ID,
		&tx.SenderAccountID,
		&tx.ReceiverAccountID,
		&tx.Amount,
		&txType,
		&tx.Timestamp,
		&txStatus,
		&tx.FraudFlag,
		&tx.Geolocation,
		&device,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.Type = domain.TransactionType(txType)
	tx.Status = domain.TransactionStatus(txStatus)
	tx.Device = domain.Device(device)
	return &tx, nil
}

// Package postgres implements the repositories over PostgreSQL via
// database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/mishinyura/transaction-risk-service/internal/repository"
)

var (
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
	_ repository.AccountRepository     = (*AccountRepository)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	account_id  TEXT PRIMARY KEY,
	first_name  TEXT NOT NULL,
	last_name   TEXT NOT NULL,
	middle_name TEXT NOT NULL DEFAULT '',
	risk        DOUBLE PRECISION NOT NULL DEFAULT 0.0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
	id                  TEXT PRIMARY KEY,
	sender_account_id   TEXT NOT NULL REFERENCES accounts(account_id),
	receiver_account_id TEXT NOT NULL REFERENCES accounts(account_id),
	amount              NUMERIC(10,2) NOT NULL,
	type                TEXT NOT NULL,
	timestamp           TIMESTAMPTZ NOT NULL,
	status              TEXT NOT NULL,
	fraud_flag          BOOLEAN NOT NULL DEFAULT FALSE,
	geolocation         TEXT NOT NULL,
	device              TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transactions_sender_ts
	ON transactions (sender_account_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_transactions_receiver
	ON transactions (receiver_account_id);
`

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema applies the DDL. Statements are idempotent, so running it on
// every startup is safe.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

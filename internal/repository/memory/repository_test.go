package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
	"github.com/mishinyura/transaction-risk-service/internal/repository"
)

func newTx(id, sender, receiver string, amount float64, ts time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:                id,
		SenderAccountID:   sender,
		ReceiverAccountID: receiver,
		Amount:            decimal.NewFromFloat(amount),
		Type:              domain.TypeTransfer,
		Timestamp:         ts,
		Status:            domain.StatusSuccess,
		Geolocation:       "Berlin",
		Device:            domain.DeviceDesktop,
	}
}

func TestAccountRepository_SaveAndGetByID(t *testing.T) {
	repo := NewAccountRepository()
	account := &domain.Account{
		AccountID: "acc1",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Risk:      12.5,
	}

	err := repo.Save(context.Background(), account)
	if err != nil {
		t.Fatalf("unexpected error on Save: %v", err)
	}
	got, err := repo.GetByID(context.Background(), "acc1")

	if err != nil {
		t.Fatalf("unexpected error on GetByID: %v", err)
	}
	if got.AccountID != account.AccountID || got.FirstName != account.FirstName || got.Risk != account.Risk {
		t.Errorf("expected account %+v, got %+v", account, got)
	}
}

func TestAccountRepository_SaveDuplicate(t *testing.T) {
	repo := NewAccountRepository()
	account := &domain.Account{AccountID: "acc1", FirstName: "Ivan", LastName: "Petrov"}
	_ = repo.Save(context.Background(), account)

	err := repo.Save(context.Background(), account)

	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestAccountRepository_UpdateRisk(t *testing.T) {
	repo := NewAccountRepository()
	_ = repo.Save(context.Background(), &domain.Account{AccountID: "acc2", FirstName: "Anna", LastName: "Orlova"})

	err := repo.UpdateRisk(context.Background(), "acc2", 77.5)
	risk, _ := repo.GetRisk(context.Background(), "acc2")

	if err != nil {
		t.Fatalf("unexpected error on UpdateRisk: %v", err)
	}
	if risk != 77.5 {
		t.Errorf("expected risk 77.5, got %f", risk)
	}
}

func TestAccountRepository_GetRiskUnknownAccount(t *testing.T) {
	repo := NewAccountRepository()

	_, err := repo.GetRisk(context.Background(), "missing")

	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionRepository_SaveAndGetByID(t *testing.T) {
	repo := NewTransactionRepository()
	tx := newTx("tx1", "acc1", "acc2", 100, time.Now())

	err := repo.Save(context.Background(), tx)
	if err != nil {
		t.Fatalf("unexpected error on Save: %v", err)
	}

	got, err := repo.GetByID(context.Background(), "tx1")
	if err != nil {
		t.Fatalf("unexpected error on GetByID: %v", err)
	}
	if got.ID != tx.ID || got.SenderAccountID != tx.SenderAccountID {
		t.Errorf("expected transaction %+v, got %+v", tx, got)
	}
}

func TestTransactionRepository_GetByAccountReturnsSentAndReceived(t *testing.T) {
	repo := NewTransactionRepository()
	now := time.Now()
	_ = repo.Save(context.Background(), newTx("tx1", "acc1", "acc2", 100, now.Add(-2*time.Hour)))
	_ = repo.Save(context.Background(), newTx("tx2", "acc3", "acc1", 200, now.Add(-1*time.Hour)))
	_ = repo.Save(context.Background(), newTx("tx3", "acc3", "acc2", 300, now))

	txs, err := repo.GetByAccount(context.Background(), "acc1")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID != "tx1" || txs[1].ID != "tx2" {
		t.Errorf("expected timestamp-ordered [tx1 tx2], got [%s %s]", txs[0].ID, txs[1].ID)
	}
}

func TestTransactionRepository_GetBySenderSinceFiltersWindow(t *testing.T) {
	repo := NewTransactionRepository()
	now := time.Now()
	_ = repo.Save(context.Background(), newTx("old", "acc1", "acc2", 100, now.AddDate(0, 0, -10)))
	_ = repo.Save(context.Background(), newTx("recent", "acc1", "acc2", 200, now.AddDate(0, 0, -2)))
	_ = repo.Save(context.Background(), newTx("received", "acc2", "acc1", 300, now))

	txs, err := repo.GetBySenderSince(context.Background(), "acc1", now.AddDate(0, 0, -7))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != "recent" {
		t.Errorf("expected only the recent sent transaction, got %+v", txs)
	}
}

func TestTransactionRepository_SaveDuplicate(t *testing.T) {
	repo := NewTransactionRepository()
	tx := newTx("tx1", "acc1", "acc2", 100, time.Now())
	_ = repo.Save(context.Background(), tx)

	err := repo.Save(context.Background(), tx)

	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
)

func validTx(id string) *domain.Transaction {
	return &domain.Transaction{
		ID:                id,
		SenderAccountID:   "acc-1",
		ReceiverAccountID: "acc-2",
		Amount:            decimal.NewFromInt(100),
		Type:              domain.TypeTransfer,
		Timestamp:         time.Now(),
		Status:            domain.StatusSuccess,
		Geolocation:       "Berlin",
		Device:            domain.DeviceDesktop,
	}
}

func TestValidateTransaction_Valid(t *testing.T) {
	v := NewTransactionValidator()

	if err := v.ValidateTransaction(validTx("tx1")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateTransaction_NonPositiveAmount(t *testing.T) {
	v := NewTransactionValidator()
	tx := validTx("tx1")
	tx.Amount = decimal.NewFromInt(0)

	if err := v.ValidateTransaction(tx); err == nil {
		t.Error("expected error for zero amount")
	}
}

func TestValidateTransaction_FutureTimestamp(t *testing.T) {
	v := NewTransactionValidator()
	tx := validTx("tx1")
	tx.Timestamp = time.Now().Add(time.Hour)

	if err := v.ValidateTransaction(tx); err == nil {
		t.Error("expected error for future timestamp")
	}
}

func TestValidateTransaction_SelfTransfer(t *testing.T) {
	v := NewTransactionValidator()
	tx := validTx("tx1")
	tx.ReceiverAccountID = tx.SenderAccountID

	if err := v.ValidateTransaction(tx); err == nil {
		t.Error("expected error for self transfer")
	}
}

func TestValidateTransaction_UnknownEnums(t *testing.T) {
	v := NewTransactionValidator()

	tx := validTx("tx1")
	tx.Type = domain.TransactionType("CardPayment")
	if err := v.ValidateTransaction(tx); err == nil {
		t.Error("expected error for unknown type")
	}

	tx = validTx("tx2")
	tx.Status = domain.TransactionStatus("Pending")
	if err := v.ValidateTransaction(tx); err == nil {
		t.Error("expected error for unknown status")
	}

	tx = validTx("tx3")
	tx.Device = domain.Device("Tablet")
	if err := v.ValidateTransaction(tx); err == nil {
		t.Error("expected error for unknown device")
	}
}

func TestValidateTransaction_Duplicate(t *testing.T) {
	v := NewTransactionValidator()
	_ = v.ValidateTransaction(validTx("tx1"))

	err := v.ValidateTransaction(validTx("tx1"))

	if !errors.Is(err, ErrDuplicateTransaction) {
		t.Errorf("expected ErrDuplicateTransaction, got %v", err)
	}
}

func TestValidateTransaction_RejectedIDCanBeResubmitted(t *testing.T) {
	v := NewTransactionValidator()

	tx := validTx("tx1")
	tx.Amount = decimal.NewFromInt(-10)
	if err := v.ValidateTransaction(tx); err == nil {
		t.Fatal("expected validation error")
	}

	if err := v.ValidateTransaction(validTx("tx1")); err != nil {
		t.Errorf("corrected resubmission with the same ID must pass, got %v", err)
	}
}

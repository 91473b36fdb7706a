package validator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
)

var (
	ErrInvalidAmount        = errors.New("invalid transaction amount")
	ErrFutureTimestamp      = errors.New("transaction timestamp is in the future")
	ErrInvalidAccount       = errors.New("invalid account")
	ErrUnknownType          = errors.New("unknown transaction type")
	ErrUnknownStatus        = errors.New("unknown transaction status")
	ErrUnknownDevice        = errors.New("unknown device")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
)

// Transactions that fail validation never reach the scoring core, which
// assumes well-formed input (positive amounts, non-future timestamps).
type TransactionValidator struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewTransactionValidator() *TransactionValidator {
	return &TransactionValidator{
		seen: make(map[string]struct{}),
	}
}

func (v *TransactionValidator) ValidateTransaction(tx *domain.Transaction) error {
	var errs []error

	if tx.Amount.Sign() <= 0 {
		errs = append(errs, ErrInvalidAmount)
	}

	// Small allowance for clock skew between the caller and this service.
	if tx.Timestamp.After(time.Now().Add(5 * time.Minute)) {
		errs = append(errs, ErrFutureTimestamp)
	}

	if tx.SenderAccountID == "" || tx.ReceiverAccountID == "" {
		errs = append(errs, ErrInvalidAccount)
	}
	if tx.Type == domain.TypeTransfer && tx.SenderAccountID == tx.ReceiverAccountID {
		errs = append(errs, errors.New("cannot transfer to same account"))
	}

	switch tx.Type {
	case domain.TypeTransfer, domain.TypeDeposit, domain.TypeWithdrawal:
	default:
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownType, tx.Type))
	}

	switch tx.Status {
	case domain.StatusSuccess, domain.StatusFailed:
	default:
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownStatus, tx.Status))
	}

	switch tx.Device {
	case domain.DeviceDesktop, domain.DeviceMobile:
	default:
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownDevice, tx.Device))
	}

	if tx.Geolocation == "" {
		errs = append(errs, errors.New("geolocation is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}

	// IDs are registered only for transactions that pass every other check,
	// so a corrected resubmission may reuse the same ID.
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, dup := v.seen[tx.ID]; dup {
		return ErrDuplicateTransaction
	}
	v.seen[tx.ID] = struct{}{}

	return nil
}

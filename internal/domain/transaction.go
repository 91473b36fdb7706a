package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string
type TransactionStatus string
type Device string

const (
	TypeTransfer   TransactionType = "Transfer"
	TypeDeposit    TransactionType = "Deposit"
	TypeWithdrawal TransactionType = "Withdrawal"

	StatusSuccess TransactionStatus = "Success"
	StatusFailed  TransactionStatus = "Failed"

	DeviceDesktop Device = "Desktop"
	DeviceMobile  Device = "Mobile"
)

// Transaction is a single money movement between two accounts. FraudFlag is
// stamped by the risk analyzer before the record is persisted; historical
// records created before the analyzer existed carry the default false.
type Transaction struct {
	ID                string            `json:"id"`
	SenderAccountID   string            `json:"sender_account_id"`
	ReceiverAccountID string            `json:"receiver_account_id"`
	Amount            decimal.Decimal   `json:"amount"`
	Type              TransactionType   `json:"type"`
	Timestamp         time.Time         `json:"timestamp"`
	Status            TransactionStatus `json:"status"`
	FraudFlag         bool              `json:"fraud_flag"`
	Geolocation       string            `json:"geolocation"`
	Device            Device            `json:"device"`
	CreatedAt         time.Time         `json:"created_at"`
}

func NewTransaction(t TransactionType, amount decimal.Decimal, senderID, receiverID string) *Transaction {
	now := time.Now()
	return &Transaction{
		ID:                uuid.New().String(),
		Type:              t,
		Amount:            amount,
		SenderAccountID:   senderID,
		ReceiverAccountID: receiverID,
		Timestamp:         now,
		Status:            StatusSuccess,
		CreatedAt:         now,
	}
}

func (tx *Transaction) WithOrigin(geolocation string, device Device) *Transaction {
	tx.Geolocation = geolocation
	tx.Device = device
	return tx
}

func (tx *Transaction) WithTimestamp(ts time.Time) *Transaction {
	tx.Timestamp = ts
	return tx
}

func (tx *Transaction) WithStatus(status TransactionStatus) *Transaction {
	tx.Status = status
	return tx
}

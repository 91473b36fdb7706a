package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

type Signer struct {
	secretKey []byte
	logger    *slog.Logger
}

func NewSigner(secretKey string, logger *slog.Logger) *Signer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Signer{
		secretKey: []byte(secretKey),
		logger:    logger,
	}
}

func (s *Signer) Sign(data []byte) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Signer) Verify(data []byte, signature string) (bool, error) {
	expected := s.Sign(data)

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		s.logger.Warn("Signature verification failed",
			slog.String("received", signature))
		return false, fmt.Errorf("invalid signature")
	}

	return true, nil
}

// SignTransaction produces a signature over the identifying fields of a
// transaction, for callers that authenticate submitted payloads.
func (s *Signer) SignTransaction(transactionID, senderAccountID string, amount decimal.Decimal, timestamp int64) string {
	data := fmt.Sprintf("%s:%s:%s:%d", transactionID, senderAccountID, amount.StringFixed(2), timestamp)
	return s.Sign([]byte(data))
}

// VerifyTransaction checks a signature produced by SignTransaction.
func (s *Signer) VerifyTransaction(transactionID, senderAccountID string, amount decimal.Decimal, timestamp int64, signature string) (bool, error) {
	data := fmt.Sprintf("%s:%s:%s:%d", transactionID, senderAccountID, amount.StringFixed(2), timestamp)
	return s.Verify([]byte(data), signature)
}

package domain

import (
	"time"
)

// Account carries a cached reputation score in Risk. The snapshot is written
// whenever the score is recomputed on read; between recomputations it may be
// stale relative to newly persisted transactions.
type Account struct {
	AccountID  string    `json:"account_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	MiddleName string    `json:"middle_name,omitempty"`
	Risk       float64   `json:"risk"`
	CreatedAt  time.Time `json:"created_at"`
}

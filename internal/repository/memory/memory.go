package memory

import (
	"github.com/mishinyura/transaction-risk-service/internal/repository"
)

var (
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
	_ repository.AccountRepository     = (*AccountRepository)(nil)
)

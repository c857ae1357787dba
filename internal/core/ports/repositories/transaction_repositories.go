package repositories

import (
	"context"
	"time"

	"github.com/corebanking/balance-service/internal/core/domain"
)

// TransactionReader defines read operations for the append-only transaction log.
type TransactionReader interface {
	// ListTransactionsByAccountAndRange retrieves all ledger entries for an
	// account whose CreatedAt falls within [from, to], both ends inclusive,
	// in chronological ascending order.
	ListTransactionsByAccountAndRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)
}

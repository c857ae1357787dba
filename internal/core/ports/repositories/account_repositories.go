package repositories

import (
	"context"

	"github.com/corebanking/balance-service/internal/core/domain"
)

// AccountReader defines plain (non-locking) read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// AccountExists reports whether an account with the given identifier exists.
	AccountExists(ctx context.Context, accountID string) (bool, error)
}

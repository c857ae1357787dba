package repositories

import (
	"context"

	"github.com/corebanking/balance-service/internal/core/domain"
)

// LedgerTx is the view of the backing store inside one atomic unit of work.
// Everything done through it becomes durable together or not at all.
type LedgerTx interface {
	// FindAccountForUpdate retrieves an account and takes its exclusive lock
	// for the remainder of the unit of work. A concurrent unit of work
	// holding the same account's lock blocks the caller until it finishes.
	// This is the only blocking point in the system.
	FindAccountForUpdate(ctx context.Context, accountID string) (*domain.Account, error)

	// SaveAccount persists the account within the unit of work.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveTransaction appends a ledger entry within the unit of work.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionManager runs a function inside one atomic unit of work.
type TransactionManager interface {
	// WithinTx begins a unit of work, runs fn against it and commits if fn
	// returns nil. Any error from fn (or from commit) rolls everything back;
	// no partial balance change or ledger entry is ever observable.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

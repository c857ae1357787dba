package pgsql

import (
	"context"

	portsrepo "github.com/corebanking/balance-service/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository implements the account store and transaction log ports
// on PostgreSQL. Exclusive account locks are row locks taken with
// SELECT ... FOR UPDATE inside a database transaction; they are released on
// commit or rollback, which bounds them to exactly one unit of work.
type PgxLedgerRepository struct {
	BaseRepository
}

// NewPgxLedgerRepository creates a new repository for account and ledger data.
func NewPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

// WithinTx runs fn inside one database transaction. If fn returns an error
// the transaction is rolled back and nothing it did is observable.
func (r *PgxLedgerRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored if the transaction commits successfully.
	defer r.Rollback(ctx, tx)

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// pgxLedgerTx is the unit-of-work view over one pgx transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

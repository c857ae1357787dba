package pgsql

import (
	portsrepo "github.com/corebanking/balance-service/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryContainer holds the concrete repository implementations backed by
// one shared connection pool.
type RepositoryContainer struct {
	Ledger portsrepo.LedgerRepositoryWithTx
}

// NewRepositoryContainer wires all pgsql repositories against the given pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *RepositoryContainer {
	return &RepositoryContainer{
		Ledger: NewPgxLedgerRepository(pool),
	}
}

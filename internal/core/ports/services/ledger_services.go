package services

import (
	"context"
	"time"

	"github.com/corebanking/balance-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines the read-only ledger operations.
type LedgerReader interface {
	// GetBalance returns the current balance of the account.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// GetStatement returns the account's ledger entries with CreatedAt in
	// [from, to] inclusive, chronologically ascending.
	GetStatement(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)
}

// LedgerMutator defines the balance-mutating ledger operations. Each call is
// one atomic unit of work: the balance change and its ledger entry become
// durable together or not at all.
type LedgerMutator interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) error
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReader
	LedgerMutator
}

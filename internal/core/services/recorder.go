package services

import (
	"time"

	"github.com/corebanking/balance-service/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRecorder builds immutable ledger entries for completed balance
// mutations. It is a pure function of its inputs plus the injected id and
// clock sources; it holds no state and makes no decisions.
type TransactionRecorder struct {
	newID func() string
	now   func() time.Time
}

// NewTransactionRecorder creates a recorder backed by random UUIDs and the
// system clock in UTC.
func NewTransactionRecorder() *TransactionRecorder {
	return NewTransactionRecorderWithGenerators(
		uuid.NewString,
		func() time.Time { return time.Now().UTC() },
	)
}

// NewTransactionRecorderWithGenerators injects the id and clock sources so
// recorded entries are deterministic under test.
func NewTransactionRecorderWithGenerators(newID func() string, now func() time.Time) *TransactionRecorder {
	return &TransactionRecorder{newID: newID, now: now}
}

// NewEntry builds the ledger entry for a completed single-account mutation.
// The account snapshot must be post-mutation: BalanceAfter is taken from it.
func (r *TransactionRecorder) NewEntry(account domain.Account, amount decimal.Decimal, txnType domain.TransactionType) domain.Transaction {
	return domain.Transaction{
		TransactionID: r.newID(),
		AccountID:     account.AccountID,
		Type:          txnType,
		Amount:        amount,
		BalanceAfter:  account.Balance,
		CreatedAt:     r.now(),
	}
}

// NewTransferEntry builds the single ledger entry for a completed transfer,
// keyed on the debited account with the credited account as counter-party.
func (r *TransactionRecorder) NewTransferEntry(from, to domain.Account, amount decimal.Decimal) domain.Transaction {
	entry := r.NewEntry(from, amount, domain.Transfer)
	toID := to.AccountID
	entry.ToAccountID = &toID
	return entry
}

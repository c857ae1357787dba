package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the balance-affecting operation a ledger entry documents.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
)

// Transaction is an immutable ledger entry recording one completed balance
// mutation. It is appended in the same unit of work as the mutation itself:
// no mutation without an entry, no entry without a mutation. Entries are
// never updated or deleted.
//
// A transfer produces exactly one entry, keyed on the debited account, with
// ToAccountID naming the credited counter-account.
type Transaction struct {
	TransactionID string          `json:"transactionID"`         // Primary Key (UUID), assigned at recording time
	AccountID     string          `json:"accountID"`             // Account whose balance this entry explains
	ToAccountID   *string         `json:"toAccountID,omitempty"` // Set for TRANSFER entries only
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`       // Positive magnitude moved
	BalanceAfter  decimal.Decimal `json:"balanceAfter"` // Owning account's balance right after the mutation
	CreatedAt     time.Time       `json:"createdAt"`
}

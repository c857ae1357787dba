package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a monetary account tracked by the ledger.
// Accounts are pre-seeded; the service only ever mutates Balance, and only
// through the ledger engine's deposit, withdraw and transfer operations.
type Account struct {
	AccountID string          `json:"accountID"` // Primary Key (UUID)
	Balance   decimal.Decimal `json:"balance"`   // Non-negative at every quiescent point, scale 2
	CreatedAt time.Time       `json:"createdAt"`
}

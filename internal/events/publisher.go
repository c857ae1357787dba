package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopicTransactionCompleted is the topic on which completed balance
// mutations are announced.
const TopicTransactionCompleted = "transaction_completed"

// Publisher announces domain events to interested downstream consumers.
// Publishing happens after the unit of work has committed; a publish failure
// never undoes a committed mutation.
type Publisher interface {
	Publish(topic string, event any) error
}

// TransactionCompleted is emitted once per successful mutating operation.
type TransactionCompleted struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	ToAccountID   string          `json:"to_account_id,omitempty"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

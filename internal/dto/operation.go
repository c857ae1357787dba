package dto

import (
	"time"

	"github.com/corebanking/balance-service/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func init() {
	// Register the decimal-aware amount validation with gin's validator engine.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("positivedecimal", validatePositiveDecimal)
	}
}

func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && d.IsPositive()
}

// OperationRequest carries the amount for a deposit, withdrawal or transfer.
type OperationRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,positivedecimal" example:"100.50"`
}

// StatementQuery carries the inclusive time window of a statement request.
type StatementQuery struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// BalanceResponse is the payload of a balance query.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

// TransactionResponse defines the data returned for one ledger entry.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	ToAccountID   *string         `json:"toAccountID,omitempty"`
	Type          string          `json:"type"` // DEPOSIT, WITHDRAWAL or TRANSFER
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// StatementResponse is the payload of a statement query.
type StatementResponse struct {
	AccountID    string                `json:"accountID"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		ToAccountID:   txn.ToAccountID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		BalanceAfter:  txn.BalanceAfter,
		CreatedAt:     txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

package pgsql

import (
	"context"
	"database/sql"
	"time"

	"github.com/corebanking/balance-service/internal/apperrors"
	"github.com/corebanking/balance-service/internal/core/domain"
)

// SaveTransaction appends a ledger entry within the enclosing transaction.
// Entries are insert-only; there is no update or delete path.
func (t *pgxLedgerTx) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, account_id, to_account_id, type, amount, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := t.tx.Exec(ctx, query,
		txn.TransactionID,
		txn.AccountID,
		txn.ToAccountID,
		txn.Type,
		txn.Amount,
		txn.BalanceAfter,
		txn.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}
	return nil
}

// ListTransactionsByAccountAndRange retrieves all ledger entries for an
// account with created_at in [from, to] inclusive, oldest first.
func (r *PgxLedgerRepository) ListTransactionsByAccountAndRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_id, to_account_id, type, amount, balance_after, created_at
		FROM transactions
		WHERE account_id = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for account "+accountID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var t domain.Transaction
		var toAccountID sql.NullString
		err := rows.Scan(
			&t.TransactionID,
			&t.AccountID,
			&toAccountID,
			&t.Type,
			&t.Amount,
			&t.BalanceAfter,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for account "+accountID, err)
		}
		if toAccountID.Valid {
			t.ToAccountID = &toAccountID.String
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows for account "+accountID, err)
	}

	return transactions, nil
}

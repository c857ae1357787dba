package pgsql

import (
	"context"
	"errors"

	"github.com/corebanking/balance-service/internal/apperrors"
	"github.com/corebanking/balance-service/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// FindAccountByID retrieves an account by its ID with a plain read.
func (r *PgxLedgerRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, balance, created_at
		FROM accounts
		WHERE account_id = $1;
	`
	var account domain.Account
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&account.AccountID,
		&account.Balance,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Map db not found error to application specific error
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by ID "+accountID, err)
	}

	return &account, nil
}

// AccountExists reports whether an account with the given ID exists.
func (r *PgxLedgerRepository) AccountExists(ctx context.Context, accountID string) (bool, error) {
	query := `SELECT 1 FROM accounts WHERE account_id = $1 LIMIT 1;`

	var one int
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check existence of account "+accountID, err)
	}
	return true, nil
}

// FindAccountForUpdate retrieves an account and takes its row lock for the
// remainder of the enclosing transaction. A concurrent transaction holding
// the lock blocks this query until it commits or rolls back.
func (t *pgxLedgerTx) FindAccountForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, balance, created_at
		FROM accounts
		WHERE account_id = $1
		FOR UPDATE;
	`
	var account domain.Account
	err := t.tx.QueryRow(ctx, query, accountID).Scan(
		&account.AccountID,
		&account.Balance,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock account "+accountID, err)
	}

	return &account, nil
}

// SaveAccount upserts the account within the enclosing transaction.
func (t *pgxLedgerTx) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, balance, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET balance = EXCLUDED.balance;
	`
	_, err := t.tx.Exec(ctx, query,
		account.AccountID,
		account.Balance,
		account.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save account "+account.AccountID, err)
	}
	return nil
}

package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corebanking/balance-service/internal/apperrors"
	"github.com/corebanking/balance-service/internal/core/domain"
	portsrepo "github.com/corebanking/balance-service/internal/core/ports/repositories"
	"github.com/corebanking/balance-service/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(balance string) *memory.Store {
	store := memory.NewStore()
	store.SeedAccount(domain.Account{
		AccountID: "acc-1",
		Balance:   decimal.RequireFromString(balance),
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	return store
}

func TestFindAccountByIDUnknown(t *testing.T) {
	store := memory.NewStore()

	_, err := store.FindAccountByID(context.Background(), "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAccountExists(t *testing.T) {
	store := seedStore("100.00")

	ok, err := store.AccountExists(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AccountExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithinTxCommitsStagedWrites(t *testing.T) {
	ctx := context.Background()
	store := seedStore("100.00")

	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.FindAccountForUpdate(ctx, "acc-1")
		if err != nil {
			return err
		}
		account.Balance = account.Balance.Add(decimal.RequireFromString("50.00"))
		if err := tx.SaveAccount(ctx, *account); err != nil {
			return err
		}
		return tx.SaveTransaction(ctx, domain.Transaction{
			TransactionID: "txn-1",
			AccountID:     "acc-1",
			Type:          domain.Deposit,
			Amount:        decimal.RequireFromString("50.00"),
			BalanceAfter:  account.Balance,
			CreatedAt:     time.Now().UTC(),
		})
	})
	require.NoError(t, err)

	account, err := store.FindAccountByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("150.00")))

	entries, err := store.ListTransactionsByAccountAndRange(ctx, "acc-1", time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWithinTxDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	store := seedStore("100.00")
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.FindAccountForUpdate(ctx, "acc-1")
		if err != nil {
			return err
		}
		account.Balance = decimal.Zero
		if err := tx.SaveAccount(ctx, *account); err != nil {
			return err
		}
		if err := tx.SaveTransaction(ctx, domain.Transaction{TransactionID: "txn-x", AccountID: "acc-1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Neither the balance write nor the entry append survived.
	account, err := store.FindAccountByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("100.00")))

	entries, err := store.ListTransactionsByAccountAndRange(ctx, "acc-1", time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithinTxReleasesLocksAfterError(t *testing.T) {
	ctx := context.Background()
	store := seedStore("100.00")

	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.FindAccountForUpdate(ctx, "acc-1"); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	// A fresh unit of work can take the lock again without blocking.
	done := make(chan error, 1)
	go func() {
		done <- store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			_, err := tx.FindAccountForUpdate(ctx, "acc-1")
			return err
		})
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lock was not released after the failed unit of work")
	}
}

func TestFindAccountForUpdateRespectsContext(t *testing.T) {
	store := seedStore("100.00")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, err := tx.FindAccountForUpdate(ctx, "acc-1")
		return err
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestListTransactionsRangeIsInclusiveAndAscending(t *testing.T) {
	ctx := context.Background()
	store := seedStore("100.00")
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []domain.Transaction{
		{TransactionID: "txn-late", AccountID: "acc-1", Type: domain.Deposit, CreatedAt: base.Add(2 * time.Hour)},
		{TransactionID: "txn-early", AccountID: "acc-1", Type: domain.Deposit, CreatedAt: base},
		{TransactionID: "txn-mid", AccountID: "acc-1", Type: domain.Withdrawal, CreatedAt: base.Add(time.Hour)},
		{TransactionID: "txn-other", AccountID: "acc-2", Type: domain.Deposit, CreatedAt: base.Add(time.Hour)},
		{TransactionID: "txn-outside", AccountID: "acc-1", Type: domain.Deposit, CreatedAt: base.Add(3 * time.Hour)},
	}
	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		for _, e := range entries {
			if err := tx.SaveTransaction(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	// Window boundaries are inclusive on both ends.
	result, err := store.ListTransactionsByAccountAndRange(ctx, "acc-1", base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "txn-early", result[0].TransactionID)
	assert.Equal(t, "txn-mid", result[1].TransactionID)
	assert.Equal(t, "txn-late", result[2].TransactionID)
}

func TestEmptyWindowReturnsEmptySlice(t *testing.T) {
	ctx := context.Background()
	store := seedStore("100.00")

	result, err := store.ListTransactionsByAccountAndRange(ctx, "acc-1",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

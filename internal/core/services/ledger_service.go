package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corebanking/balance-service/internal/apperrors"
	"github.com/corebanking/balance-service/internal/core/domain"
	portsrepo "github.com/corebanking/balance-service/internal/core/ports/repositories"
	portssvc "github.com/corebanking/balance-service/internal/core/ports/services"
	"github.com/corebanking/balance-service/internal/events"
	"github.com/corebanking/balance-service/internal/middleware"
	"github.com/corebanking/balance-service/internal/utils/lockorder"
	"github.com/shopspring/decimal"
)

// ledgerService is the balance-mutation engine. It owns the locking protocol,
// the balance arithmetic and the invariant checks; durability and mutual
// exclusion per account come from the repository's unit-of-work contract.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryWithTx
	recorder   *TransactionRecorder
	publisher  events.Publisher // optional; nil disables event publishing
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryWithTx, recorder *TransactionRecorder, publisher events.Publisher) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		recorder:   recorder,
		publisher:  publisher,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateAmount defensively re-checks what the boundary layer already
// validated: operation amounts must be strictly positive.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, amount.String())
	}
	return nil
}

// Deposit credits amount to the account and records a DEPOSIT entry, as one
// atomic unit of work.
func (s *ledgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := validateAmount(amount); err != nil {
		return err
	}

	var entry domain.Transaction
	err := s.ledgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.FindAccountForUpdate(ctx, accountID)
		if err != nil {
			return fmt.Errorf("account %s: %w", accountID, err)
		}

		account.Balance = account.Balance.Add(amount)
		if err := tx.SaveAccount(ctx, *account); err != nil {
			return fmt.Errorf("failed to save account %s: %w", accountID, err)
		}

		entry = s.recorder.NewEntry(*account, amount, domain.Deposit)
		if err := tx.SaveTransaction(ctx, entry); err != nil {
			return fmt.Errorf("failed to record deposit for account %s: %w", accountID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Deposit completed",
		slog.String("account_id", accountID),
		slog.String("amount", amount.String()),
		slog.String("transaction_id", entry.TransactionID))
	s.publishCompleted(ctx, entry)
	return nil
}

// Withdraw debits amount from the account and records a WITHDRAWAL entry, as
// one atomic unit of work. The balance must cover the amount in full.
func (s *ledgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := validateAmount(amount); err != nil {
		return err
	}

	var entry domain.Transaction
	err := s.ledgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.FindAccountForUpdate(ctx, accountID)
		if err != nil {
			return fmt.Errorf("account %s: %w", accountID, err)
		}

		if account.Balance.LessThan(amount) {
			return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, accountID)
		}

		account.Balance = account.Balance.Sub(amount)
		if err := tx.SaveAccount(ctx, *account); err != nil {
			return fmt.Errorf("failed to save account %s: %w", accountID, err)
		}

		entry = s.recorder.NewEntry(*account, amount, domain.Withdrawal)
		if err := tx.SaveTransaction(ctx, entry); err != nil {
			return fmt.Errorf("failed to record withdrawal for account %s: %w", accountID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Withdrawal completed",
		slog.String("account_id", accountID),
		slog.String("amount", amount.String()),
		slog.String("transaction_id", entry.TransactionID))
	s.publishCompleted(ctx, entry)
	return nil
}

// Transfer moves amount from one account to another and records a single
// TRANSFER entry keyed on the source account, as one atomic unit of work.
//
// Both account locks are acquired in the canonical order, never in the
// caller-supplied direction: two concurrent transfers over the same pair of
// accounts always lock in the same global order, so neither can hold one lock
// while waiting forever for the other.
func (s *ledgerService) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := validateAmount(amount); err != nil {
		return err
	}
	if fromID == toID {
		return fmt.Errorf("%w: transfer source and destination must differ", apperrors.ErrValidation)
	}

	first, second := lockorder.Canonical(fromID, toID)

	var entry domain.Transaction
	err := s.ledgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		locked := make(map[string]*domain.Account, 2)
		for _, id := range []string{first, second} {
			account, err := tx.FindAccountForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("account %s: %w", id, err)
			}
			locked[id] = account
		}

		from := locked[fromID]
		to := locked[toID]

		if from.Balance.LessThan(amount) {
			return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, fromID)
		}

		from.Balance = from.Balance.Sub(amount)
		to.Balance = to.Balance.Add(amount)

		if err := tx.SaveAccount(ctx, *from); err != nil {
			return fmt.Errorf("failed to save account %s: %w", fromID, err)
		}
		if err := tx.SaveAccount(ctx, *to); err != nil {
			return fmt.Errorf("failed to save account %s: %w", toID, err)
		}

		entry = s.recorder.NewTransferEntry(*from, *to, amount)
		if err := tx.SaveTransaction(ctx, entry); err != nil {
			return fmt.Errorf("failed to record transfer from account %s: %w", fromID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Transfer completed",
		slog.String("from_account_id", fromID),
		slog.String("to_account_id", toID),
		slog.String("amount", amount.String()),
		slog.String("transaction_id", entry.TransactionID))
	s.publishCompleted(ctx, entry)
	return nil
}

// GetBalance returns the account's current balance from a plain read.
func (s *ledgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.ledgerRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("account %s: %w", accountID, err)
		}
		return decimal.Zero, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account.Balance, nil
}

// GetStatement returns the account's ledger entries in [from, to] inclusive,
// chronologically ascending.
func (s *ledgerService) GetStatement(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	exists, err := s.ledgerRepo.AccountExists(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check account %s: %w", accountID, err)
	}
	if !exists {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}

	transactions, err := s.ledgerRepo.ListTransactionsByAccountAndRange(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	return transactions, nil
}

// publishCompleted announces a committed mutation. Failures are logged and
// swallowed: the unit of work has already committed and must stay committed.
func (s *ledgerService) publishCompleted(ctx context.Context, entry domain.Transaction) {
	if s.publisher == nil {
		return
	}

	event := events.TransactionCompleted{
		TransactionID: entry.TransactionID,
		AccountID:     entry.AccountID,
		Type:          string(entry.Type),
		Amount:        entry.Amount,
		OccurredAt:    entry.CreatedAt,
	}
	if entry.ToAccountID != nil {
		event.ToAccountID = *entry.ToAccountID
	}

	if err := s.publisher.Publish(events.TopicTransactionCompleted, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish transaction completed event",
			slog.String("transaction_id", entry.TransactionID),
			slog.String("error", err.Error()))
	}
}

// Package memory implements the account store and transaction log ports
// in process memory. Exclusive account locks are real per-account mutexes
// scoped to one unit of work, so the store exhibits the same blocking and
// deadlock characteristics as the PostgreSQL implementation. It backs the
// concurrency tests and broker-less local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/corebanking/balance-service/internal/apperrors"
	"github.com/corebanking/balance-service/internal/core/domain"
	portsrepo "github.com/corebanking/balance-service/internal/core/ports/repositories"
)

// accountState pairs an account record with the mutex that serializes units
// of work touching it.
type accountState struct {
	mu      sync.Mutex
	account domain.Account
}

// Store is an in-memory implementation of portsrepo.LedgerRepositoryWithTx.
type Store struct {
	mu       sync.Mutex // guards the maps and the entries slice, never held across account locks
	accounts map[string]*accountState
	entries  []domain.Transaction
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*accountState),
	}
}

// Ensure Store implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*Store)(nil)

// SeedAccount registers a pre-existing account. Account creation is outside
// the ledger's scope, so this is the only way accounts enter the store.
func (s *Store) SeedAccount(account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.AccountID] = &accountState{account: account}
}

// FindAccountByID returns a snapshot of the account.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	state, err := s.lookup(accountID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	snapshot := state.account
	return &snapshot, nil
}

// AccountExists reports whether an account with the given ID exists.
func (s *Store) AccountExists(ctx context.Context, accountID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[accountID]
	return ok, nil
}

// ListTransactionsByAccountAndRange returns the account's entries with
// CreatedAt in [from, to] inclusive, oldest first.
func (s *Store) ListTransactionsByAccountAndRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.Transaction{}
	for _, e := range s.entries {
		if e.AccountID != accountID {
			continue
		}
		if e.CreatedAt.Before(from) || e.CreatedAt.After(to) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// WithinTx runs fn against a staged view of the store. Account locks taken by
// fn are held until the unit of work finishes; staged writes become visible
// only if fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx := &memTx{store: s, staged: make(map[string]domain.Account)}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	tx.commit()
	return nil
}

func (s *Store) lookup(accountID string) (*accountState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return state, nil
}

// memTx is one in-flight unit of work: the account locks it holds, the
// account writes it has staged, and the ledger entries it will append.
type memTx struct {
	store    *Store
	held     []*accountState // in acquisition order
	heldIDs  map[string]bool
	staged   map[string]domain.Account
	appended []domain.Transaction
}

var _ portsrepo.LedgerTx = (*memTx)(nil)

// FindAccountForUpdate takes the account's lock for the remainder of the
// unit of work and returns a snapshot. Re-locking an account the unit of
// work already holds returns the staged view instead of self-deadlocking.
func (t *memTx) FindAccountForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if t.heldIDs[accountID] {
		snapshot := t.currentView(accountID)
		return &snapshot, nil
	}

	state, err := t.store.lookup(accountID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock() // blocks while another unit of work holds this account
	t.held = append(t.held, state)
	if t.heldIDs == nil {
		t.heldIDs = make(map[string]bool)
	}
	t.heldIDs[accountID] = true

	snapshot := state.account
	return &snapshot, nil
}

// SaveAccount stages the account write; it becomes visible on commit.
func (t *memTx) SaveAccount(ctx context.Context, account domain.Account) error {
	t.staged[account.AccountID] = account
	return nil
}

// SaveTransaction stages a ledger entry append; it becomes visible on commit.
func (t *memTx) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	t.appended = append(t.appended, txn)
	return nil
}

func (t *memTx) currentView(accountID string) domain.Account {
	if staged, ok := t.staged[accountID]; ok {
		return staged
	}
	for _, state := range t.held {
		if state.account.AccountID == accountID {
			return state.account
		}
	}
	return domain.Account{AccountID: accountID}
}

func (t *memTx) commit() {
	for _, state := range t.held {
		if staged, ok := t.staged[state.account.AccountID]; ok {
			state.account = staged
		}
	}
	if len(t.appended) > 0 {
		t.store.mu.Lock()
		t.store.entries = append(t.store.entries, t.appended...)
		t.store.mu.Unlock()
	}
}

func (t *memTx) release() {
	// Unlock in reverse acquisition order.
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].mu.Unlock()
	}
	t.held = nil
	t.heldIDs = nil
}

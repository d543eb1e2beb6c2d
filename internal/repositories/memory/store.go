// Package memory is an in-process implementation of the repository ports. It
// mirrors the PostgreSQL adapter: units hold exclusive per-account locks until
// they end, and their writes become visible all at once on commit.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_service/internal/apperrors"
	"github.com/SscSPs/ledger_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_service/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_service/internal/utils/accounting"
	"github.com/SscSPs/ledger_service/internal/utils/pagination"
)

// Store holds accounts, transactions and ledger entries in memory.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	entries      []domain.LedgerEntry
	entryIDs     map[string]struct{}

	locksMu  sync.Mutex
	rowLocks map[string]chan struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]domain.Transaction),
		entryIDs:     make(map[string]struct{}),
		rowLocks:     make(map[string]chan struct{}),
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepository        = (*Store)(nil)
)

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: s,
		LedgerRepo:  s,
	}
}

func (s *Store) rowLock(accountID string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.rowLocks[accountID]
	if !ok {
		l = make(chan struct{}, 1)
		s.rowLocks[accountID] = l
	}
	return l
}

// lockRow blocks until the account's row lock is held or ctx is done.
func (s *Store) lockRow(ctx context.Context, accountID string) error {
	select {
	case s.rowLock(accountID) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return apperrors.NewAppError(503, "timed out waiting for account lock", ctx.Err())
	}
}

func (s *Store) unlockRow(accountID string) {
	<-s.rowLock(accountID)
}

// --- accounts ---

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (s *Store) ListAccounts(_ context.Context, limit int, offset int) ([]domain.Account, error) {
	s.mu.RLock()
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	s.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		}
		return accounts[i].AccountID < accounts[j].AccountID
	})

	if offset >= len(accounts) {
		return []domain.Account{}, nil
	}
	end := min(offset+limit, len(accounts))
	return accounts[offset:end], nil
}

// UpdateAccountStatus takes the account's row lock, so it waits for any unit
// currently transferring from or to the account.
func (s *Store) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	if err := s.lockRow(ctx, accountID); err != nil {
		return err
	}
	defer s.unlockRow(accountID)

	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	account.Status = status
	s.accounts[accountID] = account
	return nil
}

// --- committed ledger reads ---

func (s *Store) SumSignedEntries(_ context.Context, accountID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sumLocked(accountID), nil
}

func (s *Store) sumLocked(accountID string) decimal.Decimal {
	var own []domain.LedgerEntry
	for _, e := range s.entries {
		if e.AccountID == accountID {
			own = append(own, e)
		}
	}
	return accounting.SumSignedAmounts(own)
}

func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (s *Store) FindEntriesByTransactionID(_ context.Context, transactionID string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []domain.LedgerEntry{}
	for _, e := range s.entries {
		if e.TransactionID == transactionID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *Store) ListEntriesByAccountID(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	var (
		afterTime time.Time
		afterID   string
		hasCursor bool
	)
	if nextToken != nil && *nextToken != "" {
		t, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		afterTime, afterID, hasCursor = t, id, true
	}

	s.mu.RLock()
	var own []domain.LedgerEntry
	for _, e := range s.entries {
		if e.AccountID == accountID {
			own = append(own, e)
		}
	}
	s.mu.RUnlock()

	// Newest first, entry ID breaks ties.
	slices.SortFunc(own, func(a, b domain.LedgerEntry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.EntryID, a.EntryID)
	})

	page := make([]domain.LedgerEntry, 0, limit)
	for _, e := range own {
		if hasCursor {
			c := e.CreatedAt.Compare(afterTime)
			if c > 0 || (c == 0 && e.EntryID >= afterID) {
				continue
			}
		}
		// One extra row tells us whether another page exists.
		if len(page) == limit+1 {
			break
		}
		page = append(page, e)
	}

	var token *string
	if len(page) > limit {
		page = page[:limit]
		last := page[len(page)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		token = &t
	}
	return page, token, nil
}

// --- units of work ---

func (s *Store) BeginUnit(_ context.Context) (portsrepo.LedgerUnit, error) {
	return &unit{store: s}, nil
}

type unit struct {
	store   *Store
	locked  []string
	txns    []domain.Transaction
	entries []domain.LedgerEntry
	done    bool
}

var _ portsrepo.LedgerUnit = (*unit)(nil)

func (u *unit) checkOpen() error {
	if u.done {
		return apperrors.NewAppError(500, "unit of work already finished", apperrors.ErrInternal)
	}
	return nil
}

// LockAccounts acquires locks in ascending ID order so that two units locking
// the same pair can never deadlock.
func (u *unit) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if err := u.checkOpen(); err != nil {
		return nil, err
	}
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	found := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		if slices.Contains(u.locked, id) {
			if a, err := u.store.FindAccountByID(ctx, id); err == nil {
				found[id] = *a
			}
			continue
		}
		// Missing rows are not locked, matching SELECT ... FOR UPDATE.
		if _, err := u.store.FindAccountByID(ctx, id); err != nil {
			continue
		}
		if err := u.store.lockRow(ctx, id); err != nil {
			return nil, err
		}
		u.locked = append(u.locked, id)
		// Re-read under the lock to see any status change that finished first.
		a, err := u.store.FindAccountByID(ctx, id)
		if err != nil {
			continue
		}
		found[id] = *a
	}
	return found, nil
}

func (u *unit) SumSignedEntries(_ context.Context, accountID string) (decimal.Decimal, error) {
	if err := u.checkOpen(); err != nil {
		return decimal.Zero, err
	}
	u.store.mu.RLock()
	sum := u.store.sumLocked(accountID)
	u.store.mu.RUnlock()
	for _, e := range u.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.SignedAmount())
		}
	}
	return sum, nil
}

func (u *unit) InsertTransaction(_ context.Context, txn domain.Transaction) error {
	if err := u.checkOpen(); err != nil {
		return err
	}
	u.txns = append(u.txns, txn)
	return nil
}

func (u *unit) InsertLedgerEntry(_ context.Context, entry domain.LedgerEntry) error {
	if err := u.checkOpen(); err != nil {
		return err
	}
	if !entry.Amount.IsPositive() {
		return apperrors.NewAppError(400, "ledger entry amount must be positive", apperrors.ErrValidation)
	}
	if !domain.HasValidScale(entry.Amount) {
		return apperrors.NewAppError(400, "ledger entry amount exceeds the stored precision", apperrors.ErrValidation)
	}
	u.entries = append(u.entries, entry)
	return nil
}

// Commit applies every staged write or none of them.
func (u *unit) Commit(_ context.Context) error {
	if err := u.checkOpen(); err != nil {
		return err
	}
	defer u.release()

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]struct{}, len(u.txns))
	for _, txn := range u.txns {
		if _, exists := s.transactions[txn.TransactionID]; exists {
			return apperrors.NewAppError(409, "failed to commit unit", fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate))
		}
		staged[txn.TransactionID] = struct{}{}
	}
	for _, e := range u.entries {
		if _, exists := s.entryIDs[e.EntryID]; exists {
			return apperrors.NewAppError(409, "failed to commit unit", fmt.Errorf("entry %s: %w", e.EntryID, apperrors.ErrDuplicate))
		}
		if _, ok := s.accounts[e.AccountID]; !ok {
			return apperrors.NewAppError(400, "failed to commit unit", fmt.Errorf("entry %s references unknown account %s", e.EntryID, e.AccountID))
		}
		_, committed := s.transactions[e.TransactionID]
		if _, pending := staged[e.TransactionID]; !committed && !pending {
			return apperrors.NewAppError(400, "failed to commit unit", fmt.Errorf("entry %s references unknown transaction %s", e.EntryID, e.TransactionID))
		}
	}

	for _, txn := range u.txns {
		txn.Entries = nil
		s.transactions[txn.TransactionID] = txn
	}
	for _, e := range u.entries {
		s.entries = append(s.entries, e)
		s.entryIDs[e.EntryID] = struct{}{}
	}
	return nil
}

// Rollback discards staged writes. It is a no-op once the unit has finished.
func (u *unit) Rollback(_ context.Context) error {
	if u.done {
		return nil
	}
	u.release()
	return nil
}

func (u *unit) release() {
	u.done = true
	u.txns = nil
	u.entries = nil
	for _, id := range u.locked {
		u.store.unlockRow(id)
	}
	u.locked = nil
}

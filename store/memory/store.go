// Package memory provides an in-memory Store implementation suitable
// for tests and ephemeral deployments. All data is lost on process
// exit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/finlane/gl"
	"github.com/finlane/gl/account"
	"github.com/finlane/gl/accrual"
	"github.com/finlane/gl/id"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/numbering"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/types"
)

type Store struct {
	mu sync.RWMutex

	// Period storage
	periods map[string]*period.FinancialPeriod

	// Account storage
	accounts map[string]*account.Account

	// Balance storage, keyed by period|account|currency
	balances map[string]*account.Balance

	// Journal storage
	entries map[string]*journal.Entry

	// Accrual storage
	accruals map[string]*accrual.Accrual

	// Document number counters, keyed by scope|range|bucket
	counters map[string]int64
}

func New() *Store {
	return &Store{
		periods:  make(map[string]*period.FinancialPeriod),
		accounts: make(map[string]*account.Account),
		balances: make(map[string]*account.Balance),
		entries:  make(map[string]*journal.Entry),
		accruals: make(map[string]*accrual.Accrual),
		counters: make(map[string]int64),
	}
}

func balanceKey(periodID id.PeriodID, accountID id.AccountID, currency string) string {
	return periodID.String() + "|" + accountID.String() + "|" + currency
}

// Period Store implementation
func (s *Store) CreatePeriod(_ context.Context, p *period.FinancialPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.periods[p.ID.String()]; exists {
		return gl.ErrAlreadyExists
	}
	s.periods[p.ID.String()] = p
	return nil
}

func (s *Store) GetPeriod(_ context.Context, periodID id.PeriodID) (*period.FinancialPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.periods[periodID.String()]; ok {
		return p, nil
	}
	return nil, gl.ErrPeriodNotFound
}

func (s *Store) GetPeriodByDate(_ context.Context, scope types.Scope, date time.Time) (*period.FinancialPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.periods {
		if p.Scope == scope && p.Covers(date) {
			return p, nil
		}
	}
	return nil, gl.ErrPeriodNotFound
}

func (s *Store) ListPeriods(_ context.Context, scope types.Scope, opts period.ListOpts) ([]*period.FinancialPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*period.FinancialPeriod, 0)
	for _, p := range s.periods {
		if p.Scope != scope {
			continue
		}
		if opts.FiscalYear != 0 && p.FiscalYear != opts.FiscalYear {
			continue
		}
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result, nil
}

func (s *Store) UpdatePeriod(_ context.Context, p *period.FinancialPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.periods[p.ID.String()]; !exists {
		return gl.ErrPeriodNotFound
	}
	s.periods[p.ID.String()] = p
	return nil
}

// Account Store implementation
func (s *Store) CreateAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.ID.String()]; exists {
		return gl.ErrAlreadyExists
	}
	for _, existing := range s.accounts {
		if existing.Scope == a.Scope && existing.Code == a.Code {
			return gl.ErrAlreadyExists
		}
	}
	s.accounts[a.ID.String()] = a
	return nil
}

func (s *Store) GetAccount(_ context.Context, accountID id.AccountID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accounts[accountID.String()]; ok {
		return a, nil
	}
	return nil, gl.ErrAccountNotFound
}

func (s *Store) GetAccountByCode(_ context.Context, scope types.Scope, code string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Scope == scope && a.Code == code {
			return a, nil
		}
	}
	return nil, gl.ErrAccountNotFound
}

func (s *Store) ListAccounts(_ context.Context, scope types.Scope, opts account.ListOpts) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*account.Account, 0)
	for _, a := range s.accounts {
		if a.Scope != scope {
			continue
		}
		if a.Archived && !opts.IncludeArchived {
			continue
		}
		if opts.Type != "" && a.Type != opts.Type {
			continue
		}
		if opts.Category != "" && a.Category != opts.Category {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})
	return result, nil
}

func (s *Store) UpdateAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.ID.String()]; !exists {
		return gl.ErrAccountNotFound
	}
	s.accounts[a.ID.String()] = a
	return nil
}

func (s *Store) ArchiveAccount(_ context.Context, accountID id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, exists := s.accounts[accountID.String()]; exists {
		a.Archived = true
		a.Touch()
		return nil
	}
	return gl.ErrAccountNotFound
}

func (s *Store) GetBalance(_ context.Context, periodID id.PeriodID, accountID id.AccountID, currency string) (*account.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.balances[balanceKey(periodID, accountID, currency)]; ok {
		return b, nil
	}
	return nil, gl.ErrNotFound
}

func (s *Store) ListBalances(_ context.Context, periodID id.PeriodID) ([]*account.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*account.Balance, 0)
	for _, b := range s.balances {
		if b.PeriodID == periodID {
			result = append(result, b)
		}
	}
	return result, nil
}

// Journal Store implementation
func (s *Store) CreateEntry(_ context.Context, e *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.ID.String()]; exists {
		return gl.ErrAlreadyExists
	}
	s.entries[e.ID.String()] = e
	return nil
}

func (s *Store) GetEntry(_ context.Context, entryID id.EntryID) (*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[entryID.String()]; ok {
		return e, nil
	}
	return nil, gl.ErrNotFound
}

func (s *Store) ListEntries(_ context.Context, scope types.Scope, opts journal.ListOpts) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*journal.Entry, 0)
	for _, e := range s.entries {
		if e.Scope != scope {
			continue
		}
		if opts.Status != "" && e.Status != opts.Status {
			continue
		}
		if opts.Type != "" && e.Type != opts.Type {
			continue
		}
		if !opts.StartDate.IsZero() && e.EntryDate.Before(opts.StartDate) {
			continue
		}
		if !opts.EndDate.IsZero() && e.EntryDate.After(opts.EndDate) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}
	return result[start:end], nil
}

func (s *Store) UpdateEntry(_ context.Context, e *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[e.ID.String()]
	if !ok {
		return gl.ErrNotFound
	}
	// Posted entries are immutable; the one legal mutation is flipping to
	// reversed when a reversal entry posts.
	if existing.Status == journal.StatusPosted && e.Status != journal.StatusReversed {
		return gl.ErrEntryImmutable
	}
	s.entries[e.ID.String()] = e
	return nil
}

// PostEntry flips the entry to posted and folds the deltas into their
// balance rows under a single lock, so either everything lands or
// nothing does.
func (s *Store) PostEntry(_ context.Context, e *journal.Entry, deltas []account.Delta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.ID.String()]; !ok {
		return gl.ErrNotFound
	}
	s.entries[e.ID.String()] = e

	for _, d := range deltas {
		key := balanceKey(d.PeriodID, d.AccountID, d.Currency)
		b, ok := s.balances[key]
		if !ok {
			b = &account.Balance{
				Entity:    types.NewEntity(),
				ID:        id.NewBalanceID(),
				Scope:     e.Scope,
				PeriodID:  d.PeriodID,
				AccountID: d.AccountID,
				Currency:  d.Currency,
			}
			s.balances[key] = b
		}
		b.DebitTotal = b.DebitTotal.Add(d.Debit)
		b.CreditTotal = b.CreditTotal.Add(d.Credit)
		b.ClosingBalance = b.OpeningBalance.Add(b.DebitTotal).Sub(b.CreditTotal)
		b.Touch()
	}
	return nil
}

func (s *Store) ListPostedLines(_ context.Context, scope types.Scope, accountID id.AccountID, from, to time.Time) ([]*journal.PostedLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type posted struct {
		line    *journal.PostedLine
		created time.Time
	}
	rows := make([]posted, 0)
	for _, e := range s.entries {
		if e.Scope != scope || e.Status != journal.StatusPosted {
			continue
		}
		if !from.IsZero() && e.PostingDate.Before(from) {
			continue
		}
		if !to.IsZero() && e.PostingDate.After(to) {
			continue
		}
		for _, ln := range e.Lines {
			if ln.AccountID != accountID {
				continue
			}
			rows = append(rows, posted{
				line: &journal.PostedLine{
					Line:           ln,
					DocumentNumber: e.DocumentNumber,
					PostingDate:    e.PostingDate,
					EntryDesc:      e.Description,
				},
				created: e.CreatedAt,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].line.PostingDate.Equal(rows[j].line.PostingDate) {
			return rows[i].line.PostingDate.Before(rows[j].line.PostingDate)
		}
		return rows[i].created.Before(rows[j].created)
	})

	result := make([]*journal.PostedLine, len(rows))
	for i, r := range rows {
		result[i] = r.line
	}
	return result, nil
}

func (s *Store) HasPostedLines(_ context.Context, accountID id.AccountID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.Status != journal.StatusPosted {
			continue
		}
		for _, ln := range e.Lines {
			if ln.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}

// Accrual Store implementation
func (s *Store) CreateAccrual(_ context.Context, a *accrual.Accrual) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accruals[a.ID.String()]; exists {
		return gl.ErrAlreadyExists
	}
	s.accruals[a.ID.String()] = a
	return nil
}

func (s *Store) GetAccrual(_ context.Context, accrualID id.AccrualID) (*accrual.Accrual, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accruals[accrualID.String()]; ok {
		return a, nil
	}
	return nil, gl.ErrNotFound
}

func (s *Store) ListAccruals(_ context.Context, scope types.Scope, opts accrual.ListOpts) ([]*accrual.Accrual, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*accrual.Accrual, 0)
	for _, a := range s.accruals {
		if a.Scope != scope {
			continue
		}
		if opts.Status != "" && a.Status != opts.Status {
			continue
		}
		if opts.Type != "" && a.Type != opts.Type {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) UpdateAccrual(_ context.Context, a *accrual.Accrual) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accruals[a.ID.String()]; !exists {
		return gl.ErrNotFound
	}
	s.accruals[a.ID.String()] = a
	return nil
}

// Numbering Store implementation
func (s *Store) IncrementCounter(_ context.Context, scope types.Scope, rangeKey, bucket string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := numbering.CounterKey(scope, rangeKey, bucket)
	s.counters[key]++
	return s.counters[key], nil
}

func (s *Store) PeekCounter(_ context.Context, scope types.Scope, rangeKey, bucket string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.counters[numbering.CounterKey(scope, rangeKey, bucket)], nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

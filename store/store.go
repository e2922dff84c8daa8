package store

import (
	"context"
	"time"

	"github.com/finlane/gl/account"
	"github.com/finlane/gl/accrual"
	"github.com/finlane/gl/id"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/types"
)

// Store is the unified storage interface for all ledger entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Period methods
	CreatePeriod(ctx context.Context, p *period.FinancialPeriod) error
	GetPeriod(ctx context.Context, periodID id.PeriodID) (*period.FinancialPeriod, error)
	GetPeriodByDate(ctx context.Context, scope types.Scope, date time.Time) (*period.FinancialPeriod, error)
	ListPeriods(ctx context.Context, scope types.Scope, opts period.ListOpts) ([]*period.FinancialPeriod, error)
	UpdatePeriod(ctx context.Context, p *period.FinancialPeriod) error

	// Account methods
	CreateAccount(ctx context.Context, a *account.Account) error
	GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error)
	GetAccountByCode(ctx context.Context, scope types.Scope, code string) (*account.Account, error)
	ListAccounts(ctx context.Context, scope types.Scope, opts account.ListOpts) ([]*account.Account, error)
	UpdateAccount(ctx context.Context, a *account.Account) error
	ArchiveAccount(ctx context.Context, accountID id.AccountID) error
	GetBalance(ctx context.Context, periodID id.PeriodID, accountID id.AccountID, currency string) (*account.Balance, error)
	ListBalances(ctx context.Context, periodID id.PeriodID) ([]*account.Balance, error)

	// Journal methods
	CreateEntry(ctx context.Context, e *journal.Entry) error
	GetEntry(ctx context.Context, entryID id.EntryID) (*journal.Entry, error)
	ListEntries(ctx context.Context, scope types.Scope, opts journal.ListOpts) ([]*journal.Entry, error)
	UpdateEntry(ctx context.Context, e *journal.Entry) error
	PostEntry(ctx context.Context, e *journal.Entry, deltas []account.Delta) error
	ListPostedLines(ctx context.Context, scope types.Scope, accountID id.AccountID, from, to time.Time) ([]*journal.PostedLine, error)
	HasPostedLines(ctx context.Context, accountID id.AccountID) (bool, error)

	// Accrual methods
	CreateAccrual(ctx context.Context, a *accrual.Accrual) error
	GetAccrual(ctx context.Context, accrualID id.AccrualID) (*accrual.Accrual, error)
	ListAccruals(ctx context.Context, scope types.Scope, opts accrual.ListOpts) ([]*accrual.Accrual, error)
	UpdateAccrual(ctx context.Context, a *accrual.Accrual) error

	// Numbering methods
	IncrementCounter(ctx context.Context, scope types.Scope, rangeKey, bucket string) (int64, error)
	PeekCounter(ctx context.Context, scope types.Scope, rangeKey, bucket string) (int64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

package gl

import (
	"context"

	"github.com/finlane/gl/account"
	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

// ──────────────────────────────────────────────────
// Chart of Accounts
// ──────────────────────────────────────────────────

// CreateAccount adds an account to the chart of accounts.
func (l *Ledger) CreateAccount(ctx context.Context, a *account.Account) error {
	if a.Scope.IsZero() {
		return ValidationError("account scope is required")
	}
	if a.Code == "" {
		return ValidationError("account code is required")
	}
	if a.Name == "" {
		return ValidationError("account name is required")
	}
	switch a.Type {
	case account.TypeAsset, account.TypeLiability, account.TypeEquity,
		account.TypeRevenue, account.TypeExpense:
	default:
		return ValidationError("unknown account type %q", a.Type)
	}

	if a.ID.IsNil() {
		a.ID = id.NewAccountID()
	}
	if a.Path == "" {
		a.Path = a.Code
	}
	if a.Level == 0 {
		a.Level = 1
	}
	a.Entity = types.NewEntity()

	if err := l.store.CreateAccount(ctx, a); err != nil {
		return err
	}

	l.logger.Debug("account created",
		"account_id", a.ID.String(),
		"code", a.Code,
		"type", string(a.Type),
	)
	return nil
}

// GetAccount retrieves an account by ID.
func (l *Ledger) GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	return l.store.GetAccount(ctx, accountID)
}

// GetAccountByCode retrieves an account by its code within a scope.
func (l *Ledger) GetAccountByCode(ctx context.Context, scope types.Scope, code string) (*account.Account, error) {
	return l.store.GetAccountByCode(ctx, scope, code)
}

// ListAccounts lists accounts within a scope.
func (l *Ledger) ListAccounts(ctx context.Context, scope types.Scope, opts account.ListOpts) ([]*account.Account, error) {
	return l.store.ListAccounts(ctx, scope, opts)
}

// UpdateAccount updates account metadata. Accounts referenced by posted
// lines keep their code and type; only descriptive fields may change.
func (l *Ledger) UpdateAccount(ctx context.Context, a *account.Account) error {
	existing, err := l.store.GetAccount(ctx, a.ID)
	if err != nil {
		return err
	}

	if existing.Code != a.Code || existing.Type != a.Type {
		inUse, err := l.store.HasPostedLines(ctx, a.ID)
		if err != nil {
			return err
		}
		if inUse {
			return ErrAccountInUse
		}
	}

	a.CreatedAt = existing.CreatedAt
	a.Touch()
	return l.store.UpdateAccount(ctx, a)
}

// ArchiveAccount soft-deletes an account. Archived accounts reject new
// lines but keep their posted history intact.
func (l *Ledger) ArchiveAccount(ctx context.Context, accountID id.AccountID) error {
	if _, err := l.store.GetAccount(ctx, accountID); err != nil {
		return err
	}
	return l.store.ArchiveAccount(ctx, accountID)
}

// GetBalance returns the balance row for (period, account, currency).
func (l *Ledger) GetBalance(ctx context.Context, periodID id.PeriodID, accountID id.AccountID, currency string) (*account.Balance, error) {
	return l.store.GetBalance(ctx, periodID, accountID, currency)
}

// ListBalances returns every balance row of a period.
func (l *Ledger) ListBalances(ctx context.Context, periodID id.PeriodID) ([]*account.Balance, error) {
	return l.store.ListBalances(ctx, periodID)
}

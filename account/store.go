package account

import (
	"context"

	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

type Store interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, accountID id.AccountID) (*Account, error)
	GetByCode(ctx context.Context, scope types.Scope, code string) (*Account, error)
	List(ctx context.Context, scope types.Scope, opts ListOpts) ([]*Account, error)
	Update(ctx context.Context, a *Account) error
	Archive(ctx context.Context, accountID id.AccountID) error

	// GetBalance returns the balance row for (period, account, currency),
	// or ErrNotFound if no line has posted against it yet.
	GetBalance(ctx context.Context, periodID id.PeriodID, accountID id.AccountID, currency string) (*Balance, error)
	ListBalances(ctx context.Context, periodID id.PeriodID) ([]*Balance, error)
}

type ListOpts struct {
	Type            Type
	Category        Category
	IncludeArchived bool
}

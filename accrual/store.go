package accrual

import (
	"context"

	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

type Store interface {
	Create(ctx context.Context, a *Accrual) error
	Get(ctx context.Context, accrualID id.AccrualID) (*Accrual, error)
	List(ctx context.Context, scope types.Scope, opts ListOpts) ([]*Accrual, error)
	// Update persists the accrual header and its full schedule.
	Update(ctx context.Context, a *Accrual) error
}

type ListOpts struct {
	Status Status
	Type   Type
}

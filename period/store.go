package period

import (
	"context"
	"time"

	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

type Store interface {
	Create(ctx context.Context, p *FinancialPeriod) error
	Get(ctx context.Context, periodID id.PeriodID) (*FinancialPeriod, error)
	// GetByDate returns the period whose window covers date for the scope.
	GetByDate(ctx context.Context, scope types.Scope, date time.Time) (*FinancialPeriod, error)
	List(ctx context.Context, scope types.Scope, opts ListOpts) ([]*FinancialPeriod, error)
	Update(ctx context.Context, p *FinancialPeriod) error
}

type ListOpts struct {
	FiscalYear int
	Status     Status
}

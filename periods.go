package gl

import (
	"context"
	"time"

	"github.com/finlane/gl/id"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/types"
)

// ──────────────────────────────────────────────────
// Period Management
// ──────────────────────────────────────────────────

// CreatePeriod creates a new financial period. The period opens
// immediately unless a status was set by the caller.
func (l *Ledger) CreatePeriod(ctx context.Context, p *period.FinancialPeriod) error {
	if p.Scope.IsZero() {
		return ValidationError("period scope is required")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return ValidationError("period start and end dates are required")
	}
	if !p.EndDate.After(p.StartDate) {
		return ValidationError("period end date must be after start date")
	}

	// Overlapping windows within a scope would make date-based period
	// resolution ambiguous.
	existing, err := l.store.ListPeriods(ctx, p.Scope, period.ListOpts{})
	if err != nil {
		return err
	}
	for _, other := range existing {
		if !p.StartDate.After(other.EndDate) && !other.StartDate.After(p.EndDate) {
			return ValidationError("period %q overlaps %q", p.Name, other.Name)
		}
	}

	if p.ID.IsNil() {
		p.ID = id.NewPeriodID()
	}
	if p.Status == "" {
		p.Status = period.StatusOpen
	}
	p.Entity = types.NewEntity()

	if err := l.store.CreatePeriod(ctx, p); err != nil {
		return err
	}

	l.logger.Debug("period created",
		"period_id", p.ID.String(),
		"name", p.Name,
		"fiscal_year", p.FiscalYear,
	)
	return nil
}

// GetPeriod retrieves a period by ID.
func (l *Ledger) GetPeriod(ctx context.Context, periodID id.PeriodID) (*period.FinancialPeriod, error) {
	return l.store.GetPeriod(ctx, periodID)
}

// GetPeriodByDate retrieves the period covering a date within a scope.
func (l *Ledger) GetPeriodByDate(ctx context.Context, scope types.Scope, date time.Time) (*period.FinancialPeriod, error) {
	return l.store.GetPeriodByDate(ctx, scope, date)
}

// ListPeriods lists periods within a scope.
func (l *Ledger) ListPeriods(ctx context.Context, scope types.Scope, opts period.ListOpts) ([]*period.FinancialPeriod, error) {
	return l.store.ListPeriods(ctx, scope, opts)
}

// TransitionPeriod moves a period along its state machine. Illegal edges
// return ErrInvalidTransition; in particular a locked period can never be
// reopened.
func (l *Ledger) TransitionPeriod(ctx context.Context, periodID id.PeriodID, to period.Status, actor string) (*period.FinancialPeriod, error) {
	p, err := l.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	from := p.Status
	if !period.CanTransition(from, to) {
		return nil, TransitionError(string(from), string(to))
	}

	now := l.now()
	p.Status = to
	switch to {
	case period.StatusClosed:
		p.ClosedBy = actor
		p.ClosedAt = &now
	case period.StatusLocked:
		p.LockedBy = actor
		p.LockedAt = &now
	case period.StatusOpen:
		// Reopening clears the close audit trail.
		p.ClosedBy = ""
		p.ClosedAt = nil
	}
	p.Touch()

	if err := l.store.UpdatePeriod(ctx, p); err != nil {
		return nil, err
	}

	l.plugins.EmitPeriodTransition(ctx, p, from, to)
	l.logger.Info("period transitioned",
		"period_id", p.ID.String(),
		"from", string(from),
		"to", string(to),
		"actor", actor,
	)
	return p, nil
}

// ClosePeriod closes an open period.
func (l *Ledger) ClosePeriod(ctx context.Context, periodID id.PeriodID, actor string) (*period.FinancialPeriod, error) {
	return l.TransitionPeriod(ctx, periodID, period.StatusClosed, actor)
}

// ReopenPeriod reopens a closed period.
func (l *Ledger) ReopenPeriod(ctx context.Context, periodID id.PeriodID, actor string) (*period.FinancialPeriod, error) {
	return l.TransitionPeriod(ctx, periodID, period.StatusOpen, actor)
}

// LockPeriod permanently locks a closed period.
func (l *Ledger) LockPeriod(ctx context.Context, periodID id.PeriodID, actor string) (*period.FinancialPeriod, error) {
	return l.TransitionPeriod(ctx, periodID, period.StatusLocked, actor)
}

// CanPost resolves the period covering date and reports whether it
// accepts postings. Returns the period alongside so posting paths do a
// single lookup: ErrPeriodNotFound when no window covers the date,
// ErrPeriodClosed when the window is closed or locked.
func (l *Ledger) CanPost(ctx context.Context, scope types.Scope, date time.Time) (*period.FinancialPeriod, error) {
	p, err := l.store.GetPeriodByDate(ctx, scope, date)
	if err != nil {
		return nil, err
	}
	if !p.IsOpen() {
		return nil, ErrPeriodClosed
	}
	return p, nil
}

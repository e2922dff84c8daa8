// Package period defines financial periods and their lifecycle.
package period

import (
	"time"

	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

type Status string

const (
	// StatusOpen accepts postings.
	StatusOpen Status = "open"
	// StatusClosed rejects postings but may be reopened.
	StatusClosed Status = "closed"
	// StatusLocked is terminal: no postings, no reopening. Used after
	// year-end finalization.
	StatusLocked Status = "locked"
)

// transitions is the explicit edge table for the period state machine.
// Anything not listed here is an illegal transition.
var transitions = map[Status][]Status{
	StatusOpen:   {StatusClosed},
	StatusClosed: {StatusOpen, StatusLocked},
	StatusLocked: {},
}

// CanTransition reports whether the edge from -> to is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// FinancialPeriod is a tenant-scoped fiscal window. Postings are accepted
// only while the period is open.
type FinancialPeriod struct {
	types.Entity
	ID           id.PeriodID `json:"id"`
	Scope        types.Scope `json:"scope"`
	Name         string      `json:"name"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	FiscalYear   int         `json:"fiscal_year"`
	FiscalPeriod int         `json:"fiscal_period"` // sequence number within the year
	Status       Status      `json:"status"`
	ClosedBy     string      `json:"closed_by,omitempty"`
	ClosedAt     *time.Time  `json:"closed_at,omitempty"`
	LockedBy     string      `json:"locked_by,omitempty"`
	LockedAt     *time.Time  `json:"locked_at,omitempty"`
}

// Covers reports whether date falls inside the period window (inclusive).
func (p *FinancialPeriod) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate.Truncate(24*time.Hour)) &&
		!d.After(p.EndDate.Truncate(24*time.Hour))
}

// IsOpen reports whether the period accepts postings.
func (p *FinancialPeriod) IsOpen() bool {
	return p.Status == StatusOpen
}

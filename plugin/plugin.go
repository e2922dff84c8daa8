// Package plugin provides an extensible plugin system for the ledger
// engine. Plugins can hook into posting, period, numbering, and accrual
// lifecycle events to extend functionality.
package plugin

import (
	"context"

	"github.com/finlane/gl/accrual"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized. The engine passes
// itself as an opaque handle to avoid an import cycle.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Journal entry lifecycle hooks
// ──────────────────────────────────────────────────

// OnEntryCreated is called when a new journal entry is created.
type OnEntryCreated interface {
	Plugin
	OnEntryCreated(ctx context.Context, e *journal.Entry) error
}

// OnEntryStatusChanged is called on every entry status transition,
// including the ones that also fire a more specific hook.
type OnEntryStatusChanged interface {
	Plugin
	OnEntryStatusChanged(ctx context.Context, e *journal.Entry, from, to journal.Status) error
}

// OnEntryPosted is called after an entry and its balance deltas commit.
type OnEntryPosted interface {
	Plugin
	OnEntryPosted(ctx context.Context, e *journal.Entry) error
}

// OnEntryReversed is called when an entry is reversed. Both the original
// and the reversal entry are passed.
type OnEntryReversed interface {
	Plugin
	OnEntryReversed(ctx context.Context, original, reversal *journal.Entry) error
}

// OnEntryVoided is called when a never-posted entry is voided.
type OnEntryVoided interface {
	Plugin
	OnEntryVoided(ctx context.Context, e *journal.Entry) error
}

// ──────────────────────────────────────────────────
// Period lifecycle hooks
// ──────────────────────────────────────────────────

// OnPeriodTransition is called when a period changes status.
type OnPeriodTransition interface {
	Plugin
	OnPeriodTransition(ctx context.Context, p *period.FinancialPeriod, from, to period.Status) error
}

// ──────────────────────────────────────────────────
// Numbering hooks
// ──────────────────────────────────────────────────

// OnNumberReserved is called when a document number is reserved.
type OnNumberReserved interface {
	Plugin
	OnNumberReserved(ctx context.Context, scope types.Scope, rangeKey, number string) error
}

// ──────────────────────────────────────────────────
// Report hooks
// ──────────────────────────────────────────────────

// OnReportGenerated is called after a report is computed. Kind is one of
// "trial_balance", "balance_sheet", "income_statement", "general_ledger".
type OnReportGenerated interface {
	Plugin
	OnReportGenerated(ctx context.Context, kind string, scope types.Scope) error
}

// ──────────────────────────────────────────────────
// Accrual lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccrualCreated is called when a new accrual is created with its
// schedule.
type OnAccrualCreated interface {
	Plugin
	OnAccrualCreated(ctx context.Context, a *accrual.Accrual) error
}

// OnAccrualRecognized is called after one recognition posts. The entry is
// the recognition journal entry that was generated.
type OnAccrualRecognized interface {
	Plugin
	OnAccrualRecognized(ctx context.Context, a *accrual.Accrual, item *accrual.ScheduleItem, e *journal.Entry) error
}

// OnAccrualVoided is called when an accrual is voided before any
// recognition happened.
type OnAccrualVoided interface {
	Plugin
	OnAccrualVoided(ctx context.Context, a *accrual.Accrual) error
}

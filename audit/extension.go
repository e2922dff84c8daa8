// Package audit bridges ledger lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on
// any particular audit store. Callers inject a RecorderFunc adapter that
// bridges to their backend at wiring time.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finlane/gl/accrual"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/plugin"
	"github.com/finlane/gl/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin               = (*Extension)(nil)
	_ plugin.OnEntryCreated       = (*Extension)(nil)
	_ plugin.OnEntryStatusChanged = (*Extension)(nil)
	_ plugin.OnEntryPosted        = (*Extension)(nil)
	_ plugin.OnEntryReversed      = (*Extension)(nil)
	_ plugin.OnEntryVoided        = (*Extension)(nil)
	_ plugin.OnPeriodTransition   = (*Extension)(nil)
	_ plugin.OnNumberReserved     = (*Extension)(nil)
	_ plugin.OnAccrualCreated     = (*Extension)(nil)
	_ plugin.OnAccrualRecognized  = (*Extension)(nil)
	_ plugin.OnAccrualVoided      = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *Event) error
}

// Event is the audit record emitted for each ledger action.
type Event struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Scope      string         `json:"scope,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *Event) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Extension bridges ledger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit" }

// ──────────────────────────────────────────────────
// Journal entry lifecycle hooks
// ──────────────────────────────────────────────────

// OnEntryCreated implements plugin.OnEntryCreated.
func (e *Extension) OnEntryCreated(ctx context.Context, entry *journal.Entry) error {
	return e.record(ctx, ActionEntryCreated, SeverityInfo, OutcomeSuccess,
		ResourceEntry, entry.ID.String(), CategoryPosting, entry.Scope, nil,
		"type", string(entry.Type),
		"total_debit", entry.TotalDebit.String(),
		"total_credit", entry.TotalCredit.String(),
	)
}

// OnEntryStatusChanged implements plugin.OnEntryStatusChanged.
func (e *Extension) OnEntryStatusChanged(ctx context.Context, entry *journal.Entry, from, to journal.Status) error {
	action := ""
	switch to {
	case journal.StatusSubmitted:
		action = ActionEntrySubmitted
	case journal.StatusApproved:
		action = ActionEntryApproved
	case journal.StatusRejected:
		action = ActionEntryRejected
	default:
		// Posted, reversed, and voided have dedicated hooks.
		return nil
	}
	return e.record(ctx, action, SeverityInfo, OutcomeSuccess,
		ResourceEntry, entry.ID.String(), CategoryPosting, entry.Scope, nil,
		"from", string(from),
		"to", string(to),
	)
}

// OnEntryPosted implements plugin.OnEntryPosted.
func (e *Extension) OnEntryPosted(ctx context.Context, entry *journal.Entry) error {
	return e.record(ctx, ActionEntryPosted, SeverityInfo, OutcomeSuccess,
		ResourceEntry, entry.ID.String(), CategoryPosting, entry.Scope, nil,
		"document_number", entry.DocumentNumber,
		"period_id", entry.PeriodID.String(),
		"total_debit", entry.TotalDebit.String(),
	)
}

// OnEntryReversed implements plugin.OnEntryReversed.
func (e *Extension) OnEntryReversed(ctx context.Context, original, reversal *journal.Entry) error {
	return e.record(ctx, ActionEntryReversed, SeverityWarning, OutcomeSuccess,
		ResourceEntry, original.ID.String(), CategoryPosting, original.Scope, nil,
		"reversal_id", reversal.ID.String(),
		"reversal_document", reversal.DocumentNumber,
	)
}

// OnEntryVoided implements plugin.OnEntryVoided.
func (e *Extension) OnEntryVoided(ctx context.Context, entry *journal.Entry) error {
	return e.record(ctx, ActionEntryVoided, SeverityWarning, OutcomeSuccess,
		ResourceEntry, entry.ID.String(), CategoryPosting, entry.Scope, nil,
		"voided_by", entry.VoidedBy,
	)
}

// ──────────────────────────────────────────────────
// Period lifecycle hooks
// ──────────────────────────────────────────────────

// OnPeriodTransition implements plugin.OnPeriodTransition.
func (e *Extension) OnPeriodTransition(ctx context.Context, p *period.FinancialPeriod, from, to period.Status) error {
	action := ActionPeriodOpened
	severity := SeverityInfo
	switch to {
	case period.StatusClosed:
		action = ActionPeriodClosed
	case period.StatusLocked:
		action = ActionPeriodLocked
		severity = SeverityWarning
	}
	return e.record(ctx, action, severity, OutcomeSuccess,
		ResourcePeriod, p.ID.String(), CategoryPeriod, p.Scope, nil,
		"name", p.Name,
		"from", string(from),
		"to", string(to),
	)
}

// ──────────────────────────────────────────────────
// Numbering hooks
// ──────────────────────────────────────────────────

// OnNumberReserved implements plugin.OnNumberReserved.
func (e *Extension) OnNumberReserved(ctx context.Context, scope types.Scope, rangeKey, number string) error {
	return e.record(ctx, ActionNumberReserved, SeverityInfo, OutcomeSuccess,
		ResourceNumber, number, CategoryNumbering, scope, nil,
		"range_key", rangeKey,
	)
}

// ──────────────────────────────────────────────────
// Accrual lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccrualCreated implements plugin.OnAccrualCreated.
func (e *Extension) OnAccrualCreated(ctx context.Context, a *accrual.Accrual) error {
	return e.record(ctx, ActionAccrualCreated, SeverityInfo, OutcomeSuccess,
		ResourceAccrual, a.ID.String(), CategoryRecognition, a.Scope, nil,
		"type", string(a.Type),
		"amount", a.OriginalAmount.String(),
		"periods", a.TotalPeriods,
	)
}

// OnAccrualRecognized implements plugin.OnAccrualRecognized.
func (e *Extension) OnAccrualRecognized(ctx context.Context, a *accrual.Accrual, item *accrual.ScheduleItem, entry *journal.Entry) error {
	return e.record(ctx, ActionAccrualRecognized, SeverityInfo, OutcomeSuccess,
		ResourceAccrual, a.ID.String(), CategoryRecognition, a.Scope, nil,
		"period_number", item.PeriodNumber,
		"amount", item.RecognizedAmount.String(),
		"entry_id", entry.ID.String(),
	)
}

// OnAccrualVoided implements plugin.OnAccrualVoided.
func (e *Extension) OnAccrualVoided(ctx context.Context, a *accrual.Accrual) error {
	return e.record(ctx, ActionAccrualVoided, SeverityWarning, OutcomeSuccess,
		ResourceAccrual, a.ID.String(), CategoryRecognition, a.Scope, nil,
		"remaining", a.RemainingAmount.String(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	scope types.Scope,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &Event{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Scope:      scope.Key(),
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}

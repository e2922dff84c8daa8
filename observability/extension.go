// Package observability provides a metrics extension that records ledger
// lifecycle event counts through a caller-supplied MetricFactory.
package observability

import (
	"context"

	"github.com/finlane/gl/accrual"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/plugin"
	"github.com/finlane/gl/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnInit              = (*MetricsExtension)(nil)
	_ plugin.OnEntryCreated      = (*MetricsExtension)(nil)
	_ plugin.OnEntryPosted       = (*MetricsExtension)(nil)
	_ plugin.OnEntryReversed     = (*MetricsExtension)(nil)
	_ plugin.OnEntryVoided       = (*MetricsExtension)(nil)
	_ plugin.OnPeriodTransition  = (*MetricsExtension)(nil)
	_ plugin.OnNumberReserved    = (*MetricsExtension)(nil)
	_ plugin.OnReportGenerated   = (*MetricsExtension)(nil)
	_ plugin.OnAccrualCreated    = (*MetricsExtension)(nil)
	_ plugin.OnAccrualRecognized = (*MetricsExtension)(nil)
	_ plugin.OnAccrualVoided     = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as an engine plugin to automatically track posting activity.
type MetricsExtension struct {
	factory MetricFactory

	// Entry metrics
	EntryCreated  Counter
	EntryPosted   Counter
	EntryReversed Counter
	EntryVoided   Counter
	EntryAmount   Histogram
	EntryLines    Histogram

	// Period metrics
	PeriodClosed   Counter
	PeriodReopened Counter
	PeriodLocked   Counter

	// Numbering metrics
	NumbersReserved Counter

	// Report metrics
	ReportsGenerated Counter

	// Accrual metrics
	AccrualCreated    Counter
	AccrualRecognized Counter
	AccrualVoided     Counter
	RecognitionAmount Histogram
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Entry metrics
		EntryCreated:  factory.Counter("gl.entry.created"),
		EntryPosted:   factory.Counter("gl.entry.posted"),
		EntryReversed: factory.Counter("gl.entry.reversed"),
		EntryVoided:   factory.Counter("gl.entry.voided"),
		EntryAmount:   factory.Histogram("gl.entry.total_debit"),
		EntryLines:    factory.Histogram("gl.entry.lines"),

		// Period metrics
		PeriodClosed:   factory.Counter("gl.period.closed"),
		PeriodReopened: factory.Counter("gl.period.reopened"),
		PeriodLocked:   factory.Counter("gl.period.locked"),

		// Numbering metrics
		NumbersReserved: factory.Counter("gl.numbering.reserved"),

		// Report metrics
		ReportsGenerated: factory.Counter("gl.report.generated"),

		// Accrual metrics
		AccrualCreated:    factory.Counter("gl.accrual.created"),
		AccrualRecognized: factory.Counter("gl.accrual.recognized"),
		AccrualVoided:     factory.Counter("gl.accrual.voided"),
		RecognitionAmount: factory.Histogram("gl.accrual.recognition_amount"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Entry lifecycle hooks
// ──────────────────────────────────────────────────

// OnEntryCreated implements plugin.OnEntryCreated.
func (m *MetricsExtension) OnEntryCreated(_ context.Context, e *journal.Entry) error {
	m.EntryCreated.Inc()
	m.EntryLines.Observe(float64(len(e.Lines)))
	return nil
}

// OnEntryPosted implements plugin.OnEntryPosted.
func (m *MetricsExtension) OnEntryPosted(_ context.Context, e *journal.Entry) error {
	m.EntryPosted.Inc()
	amount, _ := e.TotalDebit.Float64()
	m.EntryAmount.Observe(amount)
	return nil
}

// OnEntryReversed implements plugin.OnEntryReversed.
func (m *MetricsExtension) OnEntryReversed(_ context.Context, _, _ *journal.Entry) error {
	m.EntryReversed.Inc()
	return nil
}

// OnEntryVoided implements plugin.OnEntryVoided.
func (m *MetricsExtension) OnEntryVoided(_ context.Context, _ *journal.Entry) error {
	m.EntryVoided.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Period lifecycle hooks
// ──────────────────────────────────────────────────

// OnPeriodTransition implements plugin.OnPeriodTransition.
func (m *MetricsExtension) OnPeriodTransition(_ context.Context, _ *period.FinancialPeriod, from, to period.Status) error {
	switch {
	case to == period.StatusClosed:
		m.PeriodClosed.Inc()
	case to == period.StatusOpen && from == period.StatusClosed:
		m.PeriodReopened.Inc()
	case to == period.StatusLocked:
		m.PeriodLocked.Inc()
	}
	return nil
}

// ──────────────────────────────────────────────────
// Numbering and report hooks
// ──────────────────────────────────────────────────

// OnNumberReserved implements plugin.OnNumberReserved.
func (m *MetricsExtension) OnNumberReserved(_ context.Context, _ types.Scope, _, _ string) error {
	m.NumbersReserved.Inc()
	return nil
}

// OnReportGenerated implements plugin.OnReportGenerated.
func (m *MetricsExtension) OnReportGenerated(_ context.Context, _ string, _ types.Scope) error {
	m.ReportsGenerated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Accrual lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccrualCreated implements plugin.OnAccrualCreated.
func (m *MetricsExtension) OnAccrualCreated(_ context.Context, _ *accrual.Accrual) error {
	m.AccrualCreated.Inc()
	return nil
}

// OnAccrualRecognized implements plugin.OnAccrualRecognized.
func (m *MetricsExtension) OnAccrualRecognized(_ context.Context, _ *accrual.Accrual, item *accrual.ScheduleItem, _ *journal.Entry) error {
	m.AccrualRecognized.Inc()
	amount, _ := item.RecognizedAmount.Float64()
	m.RecognitionAmount.Observe(amount)
	return nil
}

// OnAccrualVoided implements plugin.OnAccrualVoided.
func (m *MetricsExtension) OnAccrualVoided(_ context.Context, _ *accrual.Accrual) error {
	m.AccrualVoided.Inc()
	return nil
}

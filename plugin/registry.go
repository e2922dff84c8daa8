package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/finlane/gl/accrual"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/types"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit               []OnInit
	onShutdown           []OnShutdown
	onEntryCreated       []OnEntryCreated
	onEntryStatusChanged []OnEntryStatusChanged
	onEntryPosted        []OnEntryPosted
	onEntryReversed      []OnEntryReversed
	onEntryVoided        []OnEntryVoided
	onPeriodTransition   []OnPeriodTransition
	onNumberReserved     []OnNumberReserved
	onReportGenerated    []OnReportGenerated
	onAccrualCreated     []OnAccrualCreated
	onAccrualRecognized  []OnAccrualRecognized
	onAccrualVoided      []OnAccrualVoided
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	var interfaces []string
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
		interfaces = append(interfaces, "OnInit")
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
		interfaces = append(interfaces, "OnShutdown")
	}
	if v, ok := p.(OnEntryCreated); ok {
		r.onEntryCreated = append(r.onEntryCreated, v)
		interfaces = append(interfaces, "OnEntryCreated")
	}
	if v, ok := p.(OnEntryStatusChanged); ok {
		r.onEntryStatusChanged = append(r.onEntryStatusChanged, v)
		interfaces = append(interfaces, "OnEntryStatusChanged")
	}
	if v, ok := p.(OnEntryPosted); ok {
		r.onEntryPosted = append(r.onEntryPosted, v)
		interfaces = append(interfaces, "OnEntryPosted")
	}
	if v, ok := p.(OnEntryReversed); ok {
		r.onEntryReversed = append(r.onEntryReversed, v)
		interfaces = append(interfaces, "OnEntryReversed")
	}
	if v, ok := p.(OnEntryVoided); ok {
		r.onEntryVoided = append(r.onEntryVoided, v)
		interfaces = append(interfaces, "OnEntryVoided")
	}
	if v, ok := p.(OnPeriodTransition); ok {
		r.onPeriodTransition = append(r.onPeriodTransition, v)
		interfaces = append(interfaces, "OnPeriodTransition")
	}
	if v, ok := p.(OnNumberReserved); ok {
		r.onNumberReserved = append(r.onNumberReserved, v)
		interfaces = append(interfaces, "OnNumberReserved")
	}
	if v, ok := p.(OnReportGenerated); ok {
		r.onReportGenerated = append(r.onReportGenerated, v)
		interfaces = append(interfaces, "OnReportGenerated")
	}
	if v, ok := p.(OnAccrualCreated); ok {
		r.onAccrualCreated = append(r.onAccrualCreated, v)
		interfaces = append(interfaces, "OnAccrualCreated")
	}
	if v, ok := p.(OnAccrualRecognized); ok {
		r.onAccrualRecognized = append(r.onAccrualRecognized, v)
		interfaces = append(interfaces, "OnAccrualRecognized")
	}
	if v, ok := p.(OnAccrualVoided); ok {
		r.onAccrualVoided = append(r.onAccrualVoided, v)
		interfaces = append(interfaces, "OnAccrualVoided")
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", interfaces,
	)

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntryCreated emits an entry created event.
func (r *Registry) EmitEntryCreated(ctx context.Context, e *journal.Entry) {
	r.mu.RLock()
	plugins := r.onEntryCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntryCreated(ctx, e)
		}); err != nil {
			r.logger.Warn("plugin OnEntryCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntryStatusChanged emits an entry status transition event.
func (r *Registry) EmitEntryStatusChanged(ctx context.Context, e *journal.Entry, from, to journal.Status) {
	r.mu.RLock()
	plugins := r.onEntryStatusChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntryStatusChanged(ctx, e, from, to)
		}); err != nil {
			r.logger.Warn("plugin OnEntryStatusChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntryPosted emits an entry posted event.
func (r *Registry) EmitEntryPosted(ctx context.Context, e *journal.Entry) {
	r.mu.RLock()
	plugins := r.onEntryPosted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntryPosted(ctx, e)
		}); err != nil {
			r.logger.Warn("plugin OnEntryPosted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntryReversed emits an entry reversed event.
func (r *Registry) EmitEntryReversed(ctx context.Context, original, reversal *journal.Entry) {
	r.mu.RLock()
	plugins := r.onEntryReversed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntryReversed(ctx, original, reversal)
		}); err != nil {
			r.logger.Warn("plugin OnEntryReversed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntryVoided emits an entry voided event.
func (r *Registry) EmitEntryVoided(ctx context.Context, e *journal.Entry) {
	r.mu.RLock()
	plugins := r.onEntryVoided
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntryVoided(ctx, e)
		}); err != nil {
			r.logger.Warn("plugin OnEntryVoided failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPeriodTransition emits a period transition event.
func (r *Registry) EmitPeriodTransition(ctx context.Context, p *period.FinancialPeriod, from, to period.Status) {
	r.mu.RLock()
	plugins := r.onPeriodTransition
	r.mu.RUnlock()

	for _, pl := range plugins {
		if err := r.callWithTimeout(ctx, pl.Name(), func() error {
			return pl.OnPeriodTransition(ctx, p, from, to)
		}); err != nil {
			r.logger.Warn("plugin OnPeriodTransition failed",
				"plugin", pl.Name(),
				"error", err,
			)
		}
	}
}

// EmitNumberReserved emits a document number reserved event.
func (r *Registry) EmitNumberReserved(ctx context.Context, scope types.Scope, rangeKey, number string) {
	r.mu.RLock()
	plugins := r.onNumberReserved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnNumberReserved(ctx, scope, rangeKey, number)
		}); err != nil {
			r.logger.Warn("plugin OnNumberReserved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitReportGenerated emits a report generated event.
func (r *Registry) EmitReportGenerated(ctx context.Context, kind string, scope types.Scope) {
	r.mu.RLock()
	plugins := r.onReportGenerated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnReportGenerated(ctx, kind, scope)
		}); err != nil {
			r.logger.Warn("plugin OnReportGenerated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAccrualCreated emits an accrual created event.
func (r *Registry) EmitAccrualCreated(ctx context.Context, a *accrual.Accrual) {
	r.mu.RLock()
	plugins := r.onAccrualCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccrualCreated(ctx, a)
		}); err != nil {
			r.logger.Warn("plugin OnAccrualCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAccrualRecognized emits an accrual recognized event.
func (r *Registry) EmitAccrualRecognized(ctx context.Context, a *accrual.Accrual, item *accrual.ScheduleItem, e *journal.Entry) {
	r.mu.RLock()
	plugins := r.onAccrualRecognized
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccrualRecognized(ctx, a, item, e)
		}); err != nil {
			r.logger.Warn("plugin OnAccrualRecognized failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAccrualVoided emits an accrual voided event.
func (r *Registry) EmitAccrualVoided(ctx context.Context, a *accrual.Accrual) {
	r.mu.RLock()
	plugins := r.onAccrualVoided
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccrualVoided(ctx, a)
		}); err != nil {
			r.logger.Warn("plugin OnAccrualVoided failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the posting pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}

package gl

import (
	"context"
	"log/slog"
	"time"

	"github.com/finlane/gl/plugin"
	"github.com/finlane/gl/store"
)

// Ledger is the main general ledger engine.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	now     func() time.Time

	// Retry policy for transient storage failures.
	retryMaxTries uint
	retryInterval time.Duration
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:         s,
		plugins:       plugin.NewRegistry(),
		logger:        slog.Default(),
		now:           func() time.Time { return time.Now().UTC() },
		retryMaxTries: 5,
		retryInterval: 50 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock overrides the engine's time source. Used by tests and by
// callers that post with a business clock.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithRetryConfig tunes the bounded retry applied to transient storage
// failures. Deterministic errors are never retried regardless of config.
func WithRetryConfig(maxTries uint, initialInterval time.Duration) Option {
	return func(l *Ledger) {
		l.retryMaxTries = maxTries
		l.retryInterval = initialInterval
	}
}

// Start migrates the store and initializes plugins.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("ledger started",
		"plugins", l.plugins.Count(),
		"retry_max_tries", l.retryMaxTries,
	)

	return nil
}

// Stop shuts down the Ledger.
func (l *Ledger) Stop() error {
	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// Ping reports whether the underlying store is reachable.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.store.Ping(ctx)
}

package gl

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/finlane/gl/numbering"
	"github.com/finlane/gl/types"
)

// ──────────────────────────────────────────────────
// Document Numbering
// ──────────────────────────────────────────────────

// ReserveDocumentNumber atomically reserves the next number in a range
// and renders it through the format template. The counter bucket is
// derived from the reset rule and date, so a yearly rule restarts at 1
// each January.
//
// Transient storage failures are retried a bounded number of times with
// exponential backoff; deterministic errors surface immediately. A
// reserved number is never reused even if the caller later discards it —
// gaps are acceptable, duplicates are not.
func (l *Ledger) ReserveDocumentNumber(ctx context.Context, scope types.Scope, rangeKey, format string, rule numbering.ResetRule, date time.Time) (string, error) {
	if scope.IsZero() {
		return "", ValidationError("numbering scope is required")
	}
	if rangeKey == "" {
		return "", ValidationError("number range key is required")
	}
	if date.IsZero() {
		date = l.now()
	}
	bucket := rule.Bucket(date)

	operation := func() (int64, error) {
		value, err := l.store.IncrementCounter(ctx, scope, rangeKey, bucket)
		if err != nil {
			if IsTransient(err) {
				return 0, err
			}
			return 0, backoff.Permanent(err)
		}
		return value, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = l.retryInterval

	value, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(l.retryMaxTries),
	)
	if err != nil {
		l.logger.Error("document number reservation failed",
			"range_key", rangeKey,
			"bucket", bucket,
			"error", err,
		)
		return "", err
	}

	number := numbering.Render(format, date, value)
	l.plugins.EmitNumberReserved(ctx, scope, rangeKey, number)

	l.logger.Debug("document number reserved",
		"range_key", rangeKey,
		"bucket", bucket,
		"value", value,
		"number", number,
	)
	return number, nil
}

// PeekDocumentNumber returns the last value handed out for a range
// bucket without reserving anything.
func (l *Ledger) PeekDocumentNumber(ctx context.Context, scope types.Scope, rangeKey string, rule numbering.ResetRule, date time.Time) (int64, error) {
	if date.IsZero() {
		date = l.now()
	}
	return l.store.PeekCounter(ctx, scope, rangeKey, rule.Bucket(date))
}

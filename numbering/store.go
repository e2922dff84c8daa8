package numbering

import (
	"context"

	"github.com/finlane/gl/types"
)

type Store interface {
	// Increment atomically advances the counter for
	// (scope, rangeKey, bucket), creating it at 1 when absent, and returns
	// the reserved value. The read-modify-write must be a single atomic
	// step: concurrent callers never observe the same pre-increment value.
	// Gaps are acceptable when a caller rolls back; duplicates are not.
	Increment(ctx context.Context, scope types.Scope, rangeKey, bucket string) (int64, error)

	// Peek returns the last value handed out without advancing, or zero
	// when the counter does not exist yet.
	Peek(ctx context.Context, scope types.Scope, rangeKey, bucket string) (int64, error)
}

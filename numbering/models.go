// Package numbering implements scope-qualified sequential document
// numbering with configurable reset cadence.
package numbering

import (
	"fmt"
	"time"

	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

// ResetRule governs when a counter restarts at 1.
type ResetRule string

const (
	ResetNever   ResetRule = "never"
	ResetYearly  ResetRule = "yearly"
	ResetMonthly ResetRule = "monthly"
)

// Bucket derives the reset bucket for a posting date. Counters are keyed
// by (scope, rangeKey, bucket), so a new bucket starts a fresh sequence.
func (r ResetRule) Bucket(date time.Time) string {
	switch r {
	case ResetYearly:
		return date.UTC().Format("2006")
	case ResetMonthly:
		return date.UTC().Format("2006-01")
	default:
		return "" // one bucket forever
	}
}

// Counter is the persisted allocator state for one
// (scope, rangeKey, bucket). Value is the last number handed out.
type Counter struct {
	types.Entity
	ID       id.CounterID `json:"id"`
	Scope    types.Scope  `json:"scope"`
	RangeKey string       `json:"range_key"`
	Bucket   string       `json:"bucket"`
	Value    int64        `json:"value"`
}

// Key returns the stable composite key for a counter.
func CounterKey(scope types.Scope, rangeKey, bucket string) string {
	return fmt.Sprintf("%s|%s|%s", scope.Key(), rangeKey, bucket)
}

// Package id defines TypeID-based identity types for all ledger entities.
//
// Every entity uses a single ID struct with a prefix that identifies the
// entity type. IDs are K-sortable (UUIDv7-based), globally unique, and
// URL-safe in the format "prefix_suffix".
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all ledger entity types.
const (
	PrefixPeriod       Prefix = "period" // Financial period
	PrefixAccount      Prefix = "acct"   // Chart of accounts entry
	PrefixEntry        Prefix = "je"     // Journal entry
	PrefixLine         Prefix = "jel"    // Journal entry line
	PrefixBalance      Prefix = "bal"    // Account balance row
	PrefixAccrual      Prefix = "acr"    // Accrual / deferral
	PrefixScheduleItem Prefix = "sched"  // Accrual schedule item
	PrefixCounter      Prefix = "seq"    // Number range counter
)

// ID is the primary identifier type for all ledger entities.
// It wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier in the format "prefix_suffix".
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "je_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Per-entity aliases
// ──────────────────────────────────────────────────

// PeriodID is a type-safe identifier for financial periods (prefix: "period").
type PeriodID = ID

// AccountID is a type-safe identifier for chart-of-accounts entries (prefix: "acct").
type AccountID = ID

// EntryID is a type-safe identifier for journal entries (prefix: "je").
type EntryID = ID

// LineID is a type-safe identifier for journal entry lines (prefix: "jel").
type LineID = ID

// BalanceID is a type-safe identifier for account balance rows (prefix: "bal").
type BalanceID = ID

// AccrualID is a type-safe identifier for accruals (prefix: "acr").
type AccrualID = ID

// ScheduleItemID is a type-safe identifier for accrual schedule items (prefix: "sched").
type ScheduleItemID = ID

// CounterID is a type-safe identifier for number range counters (prefix: "seq").
type CounterID = ID

// AnyID is a type alias that accepts any valid prefix.
type AnyID = ID

// ──────────────────────────────────────────────────
// Convenience constructors
// ──────────────────────────────────────────────────

// NewPeriodID generates a new unique financial period ID.
func NewPeriodID() ID { return New(PrefixPeriod) }

// NewAccountID generates a new unique account ID.
func NewAccountID() ID { return New(PrefixAccount) }

// NewEntryID generates a new unique journal entry ID.
func NewEntryID() ID { return New(PrefixEntry) }

// NewLineID generates a new unique journal entry line ID.
func NewLineID() ID { return New(PrefixLine) }

// NewBalanceID generates a new unique account balance ID.
func NewBalanceID() ID { return New(PrefixBalance) }

// NewAccrualID generates a new unique accrual ID.
func NewAccrualID() ID { return New(PrefixAccrual) }

// NewScheduleItemID generates a new unique schedule item ID.
func NewScheduleItemID() ID { return New(PrefixScheduleItem) }

// NewCounterID generates a new unique counter ID.
func NewCounterID() ID { return New(PrefixCounter) }

// ──────────────────────────────────────────────────
// Convenience parsers
// ──────────────────────────────────────────────────

// ParsePeriodID parses a string and validates the "period" prefix.
func ParsePeriodID(s string) (ID, error) { return ParseWithPrefix(s, PrefixPeriod) }

// ParseAccountID parses a string and validates the "acct" prefix.
func ParseAccountID(s string) (ID, error) { return ParseWithPrefix(s, PrefixAccount) }

// ParseEntryID parses a string and validates the "je" prefix.
func ParseEntryID(s string) (ID, error) { return ParseWithPrefix(s, PrefixEntry) }

// ParseLineID parses a string and validates the "jel" prefix.
func ParseLineID(s string) (ID, error) { return ParseWithPrefix(s, PrefixLine) }

// ParseBalanceID parses a string and validates the "bal" prefix.
func ParseBalanceID(s string) (ID, error) { return ParseWithPrefix(s, PrefixBalance) }

// ParseAccrualID parses a string and validates the "acr" prefix.
func ParseAccrualID(s string) (ID, error) { return ParseWithPrefix(s, PrefixAccrual) }

// ParseScheduleItemID parses a string and validates the "sched" prefix.
func ParseScheduleItemID(s string) (ID, error) { return ParseWithPrefix(s, PrefixScheduleItem) }

// ParseCounterID parses a string and validates the "seq" prefix.
func ParseCounterID(s string) (ID, error) { return ParseWithPrefix(s, PrefixCounter) }

// ParseAny parses a string into an ID without type checking the prefix.
func ParseAny(s string) (ID, error) { return Parse(s) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
// Returns nil for the Nil ID so that optional foreign key columns store NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil

			return nil
		}

		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil

			return nil
		}

		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}

package gl

import "github.com/finlane/gl/types"

// Re-export common types for convenience so users don't have to import types package.

// Scope is re-exported from types package.
type Scope = types.Scope

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Scope constructors
var (
	NewScope = types.NewScope
)

// Re-export decimal helpers
var (
	Epsilon       = types.Epsilon
	WithinEpsilon = types.WithinEpsilon
	SumDecimals   = types.SumDecimals
)

// Re-export Entity constructor
var NewEntity = types.NewEntity

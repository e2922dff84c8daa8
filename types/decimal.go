package types

import "github.com/shopspring/decimal"

// All money-bearing fields in the engine are decimal.Decimal values.
// Amounts are stored at full precision and rounded to two decimal places
// only when a schedule or report requires a presentable figure.

// Epsilon is the balance tolerance: one minor currency unit. Comparisons
// for "balanced" use it to absorb rounding from schedule generation, never
// to mask a real imbalance.
var Epsilon = decimal.New(1, -2) // 0.01

// WithinEpsilon reports whether a and b differ by less than Epsilon.
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Epsilon)
}

// IsZeroish reports whether d is within Epsilon of zero.
func IsZeroish(d decimal.Decimal) bool {
	return d.Abs().LessThan(Epsilon)
}

// SumDecimals adds a slice of decimals without intermediate rounding.
func SumDecimals(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

package ledger

import "github.com/shopspring/decimal"

// Epsilon is the fixed tolerance for monetary comparisons: one minor currency
// unit. Amounts are fixed-point decimals end to end; the epsilon only absorbs
// sub-cent rounding introduced at input boundaries, never float drift.
var Epsilon = decimal.New(1, -2) // 0.01

// Equal reports a == b within Epsilon (differences up to one cent are
// treated as rounding, per the line-item tolerance rule).
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// GreaterThan reports a > b strictly: a exceeds b by at least one cent.
// A full cent is a real difference, only sub-cent drift is rounding.
func GreaterThan(a, b decimal.Decimal) bool {
	return a.Sub(b).GreaterThanOrEqual(Epsilon)
}

// AtLeast reports a >= b, forgiving a sub-cent shortfall.
func AtLeast(a, b decimal.Decimal) bool {
	return b.Sub(a).LessThan(Epsilon)
}

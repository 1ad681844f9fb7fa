// Package types implements attestor's refined scalars, frozen map, UTC
// datetime, and Money — the immutable value types every other layer
// builds on.
package types

import (
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/result"
)

// PositiveDecimal is a Decimal known to be strictly greater than zero.
// Once constructed via NewPositiveDecimal the invariant holds for the
// lifetime of the value — there is no way to mutate it back out of range.
type PositiveDecimal struct{ v *decimal.Decimal }

// NewPositiveDecimal validates d > 0.
func NewPositiveDecimal(d *decimal.Decimal) (PositiveDecimal, error) {
	if decimal.Sign(d) <= 0 {
		return PositiveDecimal{}, result.NewValidationError(result.FieldViolation{
			Path: "value", Constraint: "must be > 0", Actual: decimal.String(d),
		})
	}
	return PositiveDecimal{v: d}, nil
}

// Value returns the underlying Decimal.
func (p PositiveDecimal) Value() *decimal.Decimal { return p.v }

// NonZeroDecimal is a Decimal known not to equal zero.
type NonZeroDecimal struct{ v *decimal.Decimal }

func NewNonZeroDecimal(d *decimal.Decimal) (NonZeroDecimal, error) {
	if decimal.IsZero(d) {
		return NonZeroDecimal{}, result.NewValidationError(result.FieldViolation{
			Path: "value", Constraint: "must be != 0", Actual: decimal.String(d),
		})
	}
	return NonZeroDecimal{v: d}, nil
}

func (n NonZeroDecimal) Value() *decimal.Decimal { return n.v }

// NonNegativeDecimal is a Decimal known to be >= 0.
type NonNegativeDecimal struct{ v *decimal.Decimal }

func NewNonNegativeDecimal(d *decimal.Decimal) (NonNegativeDecimal, error) {
	if decimal.IsNegative(d) {
		return NonNegativeDecimal{}, result.NewValidationError(result.FieldViolation{
			Path: "value", Constraint: "must be >= 0", Actual: decimal.String(d),
		})
	}
	return NonNegativeDecimal{v: d}, nil
}

func (n NonNegativeDecimal) Value() *decimal.Decimal { return n.v }

// NonEmptyStr is a string known not to be empty (after no trimming — an
// all-whitespace string is still considered non-empty by design; callers
// that need trimmed semantics trim before constructing).
type NonEmptyStr struct{ v string }

func NewNonEmptyStr(s string) (NonEmptyStr, error) {
	if s == "" {
		return NonEmptyStr{}, result.NewValidationError(result.FieldViolation{
			Path: "value", Constraint: "must be non-empty", Actual: s,
		})
	}
	return NonEmptyStr{v: s}, nil
}

func (n NonEmptyStr) String() string { return n.v }

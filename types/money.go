package types

import (
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/identifiers"
	"github.com/withobsrvr/attestor/result"
)

// Money is a finite Decimal amount paired with a currency code. NaN or
// infinite amounts are rejected at construction — only finite values can
// ever exist inside a Money.
type Money struct {
	Amount   *decimal.Decimal
	Currency NonEmptyStr
}

// NewMoney validates amount is finite and currency is non-empty.
func NewMoney(amount *decimal.Decimal, currency string) (Money, error) {
	ve := result.NewValidationError()
	if !decimal.IsFinite(amount) {
		ve.Field("amount", "must be finite", decimal.String(amount))
	}
	cur, err := NewNonEmptyStr(currency)
	if err != nil {
		ve.Field("currency", "must be non-empty", currency)
	}
	if ve.HasViolations() {
		return Money{}, ve
	}
	return Money{Amount: amount, Currency: cur}, nil
}

// Add returns m + o. Both operands must share a currency.
func (m Money) Add(c *decimal.Context, o Money) (Money, error) {
	if m.Currency.String() != o.Currency.String() {
		return Money{}, result.NewValidationError(result.FieldViolation{
			Path: "currency", Constraint: "operands must share a currency",
			Actual: m.Currency.String() + " vs " + o.Currency.String(),
		})
	}
	sum, err := c.Add(m.Amount, o.Amount)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(sum, m.Currency.String())
}

// Sub returns m - o. Both operands must share a currency.
func (m Money) Sub(c *decimal.Context, o Money) (Money, error) {
	if m.Currency.String() != o.Currency.String() {
		return Money{}, result.NewValidationError(result.FieldViolation{
			Path: "currency", Constraint: "operands must share a currency",
			Actual: m.Currency.String() + " vs " + o.Currency.String(),
		})
	}
	diff, err := c.Sub(m.Amount, o.Amount)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(diff, m.Currency.String())
}

// Mul scales the amount by scalar, preserving currency.
func (m Money) Mul(c *decimal.Context, scalar *decimal.Decimal) (Money, error) {
	prod, err := c.Mul(m.Amount, scalar)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(prod, m.Currency.String())
}

// Div divides the amount by a known-non-zero scalar, preserving currency.
func (m Money) Div(c *decimal.Context, scalar NonZeroDecimal) (Money, error) {
	quo, err := c.Quo(m.Amount, scalar.Value())
	if err != nil {
		return Money{}, err
	}
	return NewMoney(quo, m.Currency.String())
}

// RoundToMinorUnit quantizes the amount to the currency's ISO-4217 minor
// unit (e.g. 2 decimal places for USD, 0 for JPY, 3 for KWD).
func (m Money) RoundToMinorUnit(c *decimal.Context) (Money, error) {
	digits := identifiers.MinorUnitDigits(m.Currency.String())
	rounded, err := c.QuantizeToExponent(m.Amount, int32(-digits))
	if err != nil {
		return Money{}, err
	}
	return NewMoney(rounded, m.Currency.String())
}

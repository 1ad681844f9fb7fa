package decimal

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/withobsrvr/attestor/result"
)

// Decimal is an alias for the underlying arbitrary-precision decimal the
// apd library provides. Attestor never hands out a *float64 anywhere in
// domain code — every amount, rate, and price flows through this type.
type Decimal = apd.Decimal

// Zero, One, and Two are convenience constants, never mutated in place.
func Zero() *Decimal { return apd.New(0, 0) }
func One() *Decimal  { return apd.New(1, 0) }
func Two() *Decimal  { return apd.New(2, 0) }

// NewFromInt64 builds a Decimal from an integer mantissa and base-10
// exponent: value = mantissa * 10^exponent.
func NewFromInt64(mantissa int64, exponent int32) *Decimal {
	return apd.New(mantissa, exponent)
}

// Parse decodes a decimal string under c, trapping malformed input as a
// DomainError rather than panicking.
func (c *Context) Parse(s string) (*Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, result.NewDomainError("INVALID_DECIMAL", "cannot parse \""+s+"\": "+err.Error())
	}
	return c.Quantize(d)
}

// MustParse parses s or panics — reserved for literal constants in tests
// and package-level initialization, never for user input.
func MustParse(s string) *Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func wrapCondition(op string, _ apd.Condition, err error) error {
	if err != nil {
		return result.NewDomainError("DECIMAL_"+op, err.Error())
	}
	return nil
}

// Add returns a context-rounded x + y.
func (c *Context) Add(x, y *Decimal) (*Decimal, error) {
	z := new(Decimal)
	cond, err := c.apdContext().Add(z, x, y)
	if werr := wrapCondition("ADD", cond, err); werr != nil {
		return nil, werr
	}
	return z, nil
}

// Sub returns a context-rounded x - y.
func (c *Context) Sub(x, y *Decimal) (*Decimal, error) {
	z := new(Decimal)
	cond, err := c.apdContext().Sub(z, x, y)
	if werr := wrapCondition("SUB", cond, err); werr != nil {
		return nil, werr
	}
	return z, nil
}

// Mul returns a context-rounded x * y.
func (c *Context) Mul(x, y *Decimal) (*Decimal, error) {
	z := new(Decimal)
	cond, err := c.apdContext().Mul(z, x, y)
	if werr := wrapCondition("MUL", cond, err); werr != nil {
		return nil, werr
	}
	return z, nil
}

// Quo returns a context-rounded x / y. Division by zero is a trapped
// condition and surfaces as a DomainError, never a panic or an infinity.
func (c *Context) Quo(x, y *Decimal) (*Decimal, error) {
	z := new(Decimal)
	cond, err := c.apdContext().Quo(z, x, y)
	if werr := wrapCondition("QUO", cond, err); werr != nil {
		return nil, werr
	}
	return z, nil
}

// Neg returns -x.
func (c *Context) Neg(x *Decimal) (*Decimal, error) {
	z := new(Decimal)
	cond, err := c.apdContext().Neg(z, x)
	if werr := wrapCondition("NEG", cond, err); werr != nil {
		return nil, werr
	}
	return z, nil
}

// Abs returns |x|.
func (c *Context) Abs(x *Decimal) (*Decimal, error) {
	z := new(Decimal)
	cond, err := c.apdContext().Abs(z, x)
	if werr := wrapCondition("ABS", cond, err); werr != nil {
		return nil, werr
	}
	return z, nil
}

// Quantize rounds x to the context's working precision without changing
// its mathematical exponent convention, used whenever an internally
// elevated-precision computation returns to the caller's context.
func (c *Context) Quantize(x *Decimal) (*Decimal, error) {
	z := new(Decimal)
	cond, err := c.apdContext().Round(z, x)
	if werr := wrapCondition("QUANTIZE", cond, err); werr != nil {
		return nil, werr
	}
	return z, nil
}

// QuantizeToExponent rounds x to exactly exponent decimal places (e.g.
// exponent -2 for cents), applying the context's rounding mode — used by
// Money.RoundToMinorUnit to apply the ISO-4217 minor-unit table.
func (c *Context) QuantizeToExponent(x *Decimal, exponent int32) (*Decimal, error) {
	z := new(Decimal)
	cond, err := c.apdContext().Quantize(z, x, exponent)
	if werr := wrapCondition("QUANTIZE_EXP", cond, err); werr != nil {
		return nil, werr
	}
	return z, nil
}

// Cmp compares x and y: -1, 0, or 1.
func Cmp(x, y *Decimal) int { return x.Cmp(y) }

// IsZero reports whether x is exactly zero.
func IsZero(x *Decimal) bool { return x.IsZero() }

// Sign returns -1, 0, or 1.
func Sign(x *Decimal) int { return x.Sign() }

// IsNegative reports whether x < 0.
func IsNegative(x *Decimal) bool { return x.Sign() < 0 }

// IsFinite reports whether x is neither NaN nor infinite. apd.Decimal has
// no infinity representation, but can carry NaN forms from a prior
// un-trapped operation; attestor always traps, so this is primarily a
// defensive check at construction boundaries (e.g. Money).
func IsFinite(x *Decimal) bool {
	return x.Form == apd.Finite
}

// String renders the canonical decimal string form used by canonical
// serialization — apd's default String already avoids rewriting trailing
// zeros that were explicitly part of the value's exponent.
func String(x *Decimal) string { return x.String() }

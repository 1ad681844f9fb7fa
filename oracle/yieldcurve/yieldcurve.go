// Package yieldcurve implements yield-curve bootstrapping, log-linear
// discount-factor interpolation, forward-rate calculation, and the
// yield-curve arbitrage-freedom gates (AF-YC-01..05).
package yieldcurve

import (
	"sort"

	"github.com/withobsrvr/attestor/attestation"
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/result"
	"github.com/withobsrvr/attestor/types"
)

// YieldCurve is a validated, ascending-tenor discount curve.
type YieldCurve struct {
	Currency        string
	AsOf            types.UTCDateTime
	Tenors          []*decimal.Decimal
	DiscountFactors []*decimal.Decimal
	ModelConfigRef  string
}

// New enforces length equality, strictly-ascending positive tenors, and
// strictly-positive discount factors.
func New(currency string, asOf types.UTCDateTime, tenors, discountFactors []*decimal.Decimal, modelConfigRef string) (YieldCurve, error) {
	ve := result.NewValidationError()
	if len(tenors) != len(discountFactors) {
		ve.Field("discount_factors", "must have the same length as tenors", "length mismatch")
	}
	if len(tenors) == 0 {
		ve.Field("tenors", "must be non-empty", "[]")
	}
	for i, t := range tenors {
		if decimal.Sign(t) <= 0 {
			ve.Field("tenors", "must be strictly positive", decimal.String(t))
		}
		if i > 0 && decimal.Cmp(t, tenors[i-1]) <= 0 {
			ve.Field("tenors", "must be strictly ascending", decimal.String(t))
		}
	}
	for _, d := range discountFactors {
		if decimal.Sign(d) <= 0 {
			ve.Field("discount_factors", "must be strictly positive", decimal.String(d))
		}
	}
	if ve.HasViolations() {
		return YieldCurve{}, ve
	}
	return YieldCurve{
		Currency: currency, AsOf: asOf,
		Tenors: append([]*decimal.Decimal(nil), tenors...),
		DiscountFactors: append([]*decimal.Decimal(nil), discountFactors...),
		ModelConfigRef: modelConfigRef,
	}, nil
}

func (y YieldCurve) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteString(y.Currency)
	w.WriteDateTime(y.AsOf)
	w.WriteSequence(len(y.Tenors), func(i int) { w.WriteDecimal(decimal.String(y.Tenors[i])) })
	w.WriteSequence(len(y.DiscountFactors), func(i int) { w.WriteDecimal(decimal.String(y.DiscountFactors[i])) })
	w.WriteString(y.ModelConfigRef)
	return w.Bytes(), nil
}

// QuoteInstrumentType distinguishes the quote conventions a bootstrap
// input can come from.
type QuoteInstrumentType int

const (
	Deposit QuoteInstrumentType = iota
	FRA
	Swap
)

// Quote is one bootstrap input.
type Quote struct {
	InstrumentType QuoteInstrumentType
	Tenor          *decimal.Decimal
	Rate           *decimal.Decimal
	Currency       string
}

// Bootstrap sorts quotes by tenor and emits discount factors
// D(t) = 1/(1+r*t) for each, per spec §4.5. All quotes must share a
// currency.
func Bootstrap(ctx *decimal.Context, quotes []Quote, asOf types.UTCDateTime, modelConfigRef string) (YieldCurve, error) {
	if len(quotes) == 0 {
		return YieldCurve{}, result.NewValidationError(result.FieldViolation{
			Path: "quotes", Constraint: "must be non-empty", Actual: "[]",
		})
	}
	sorted := append([]Quote(nil), quotes...)
	sort.Slice(sorted, func(i, j int) bool { return decimal.Cmp(sorted[i].Tenor, sorted[j].Tenor) < 0 })

	currency := sorted[0].Currency
	tenors := make([]*decimal.Decimal, 0, len(sorted))
	discountFactors := make([]*decimal.Decimal, 0, len(sorted))
	one := decimal.One()
	for _, q := range sorted {
		if q.Currency != currency {
			return YieldCurve{}, result.NewValidationError(result.FieldViolation{
				Path: "quotes", Constraint: "must share a single currency", Actual: q.Currency,
			})
		}
		rt, err := ctx.Mul(q.Rate, q.Tenor)
		if err != nil {
			return YieldCurve{}, err
		}
		denom, err := ctx.Add(one, rt)
		if err != nil {
			return YieldCurve{}, err
		}
		df, err := ctx.Quo(one, denom)
		if err != nil {
			return YieldCurve{}, err
		}
		tenors = append(tenors, q.Tenor)
		discountFactors = append(discountFactors, df)
	}

	return New(currency, asOf, tenors, discountFactors, modelConfigRef)
}

// Discount returns the interpolated discount factor at t: log-linear
// between bracketing tenors, flat beyond the last tenor, and log-linear
// extrapolation from D(0)=1 before the first tenor.
func (y YieldCurve) Discount(ctx *decimal.Context, t *decimal.Decimal) (*decimal.Decimal, error) {
	n := len(y.Tenors)
	if decimal.Cmp(t, y.Tenors[0]) <= 0 {
		return logLinearInterp(ctx, decimal.Zero(), decimal.One(), y.Tenors[0], y.DiscountFactors[0], t)
	}
	if decimal.Cmp(t, y.Tenors[n-1]) >= 0 {
		return y.DiscountFactors[n-1], nil
	}
	for i := 1; i < n; i++ {
		if decimal.Cmp(t, y.Tenors[i]) <= 0 {
			return logLinearInterp(ctx, y.Tenors[i-1], y.DiscountFactors[i-1], y.Tenors[i], y.DiscountFactors[i], t)
		}
	}
	return y.DiscountFactors[n-1], nil
}

// logLinearInterp interpolates ln(D) linearly in t between (t0,D0) and
// (t1,D1), then exponentiates back.
func logLinearInterp(ctx *decimal.Context, t0, d0, t1, d1, t *decimal.Decimal) (*decimal.Decimal, error) {
	lnD0, err := ctx.Ln(d0)
	if err != nil {
		return nil, err
	}
	lnD1, err := ctx.Ln(d1)
	if err != nil {
		return nil, err
	}
	tDiff, err := ctx.Sub(t1, t0)
	if err != nil {
		return nil, err
	}
	if decimal.IsZero(tDiff) {
		return d1, nil
	}
	frac, err := ctx.Sub(t, t0)
	if err != nil {
		return nil, err
	}
	frac, err = ctx.Quo(frac, tDiff)
	if err != nil {
		return nil, err
	}
	lnDiff, err := ctx.Sub(lnD1, lnD0)
	if err != nil {
		return nil, err
	}
	weighted, err := ctx.Mul(frac, lnDiff)
	if err != nil {
		return nil, err
	}
	lnD, err := ctx.Add(lnD0, weighted)
	if err != nil {
		return nil, err
	}
	return ctx.Exp(lnD)
}

// ForwardRate computes f(t1,t2) = -ln(D(t2)/D(t1)) / (t2-t1).
func (y YieldCurve) ForwardRate(ctx *decimal.Context, t1, t2 *decimal.Decimal) (*decimal.Decimal, error) {
	d1, err := y.Discount(ctx, t1)
	if err != nil {
		return nil, err
	}
	d2, err := y.Discount(ctx, t2)
	if err != nil {
		return nil, err
	}
	ratio, err := ctx.Quo(d2, d1)
	if err != nil {
		return nil, err
	}
	lnRatio, err := ctx.Ln(ratio)
	if err != nil {
		return nil, err
	}
	negLnRatio, err := ctx.Neg(lnRatio)
	if err != nil {
		return nil, err
	}
	tDiff, err := ctx.Sub(t2, t1)
	if err != nil {
		return nil, err
	}
	return ctx.Quo(negLnRatio, tDiff)
}

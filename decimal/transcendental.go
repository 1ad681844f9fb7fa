package decimal

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/withobsrvr/attestor/result"
)

// Sqrt delegates to apd's square root under c's context, per spec §4.1:
// "delegates to the decimal library's square root in the project's
// decimal context." Negative input is rejected rather than producing a
// complex or NaN result.
func (c *Context) Sqrt(x *Decimal) (*Decimal, error) {
	if IsNegative(x) {
		return nil, result.NewDomainError("SQRT_NEGATIVE", "sqrt of negative value "+String(x))
	}
	z := new(Decimal)
	cond, err := c.apdContext().Sqrt(z, x)
	if werr := wrapCondition("SQRT", cond, err); werr != nil {
		return nil, werr
	}
	return z, nil
}

// internal returns the elevated-precision scratch context transcendentals
// compute at: c's precision plus the guard digits.
func (c *Context) internal() *Context {
	return c.withPrecision(c.precision + GuardDigits)
}

// seriesThreshold returns 10^-(precision+2), the magnitude below which a
// series term is considered converged.
func seriesThreshold(precision uint32) *Decimal {
	return apd.New(1, -int32(precision)-2)
}

// ln2Constant computes ln(2) via the atanh series at ic's precision + 5,
// per spec §4.1: "The constant ln2 is itself computed by the atanh series
// at precision >= output + 5."
func ln2Constant(ic *Context) (*Decimal, error) {
	hp := ic.withPrecision(ic.precision + 5)
	u, err := hp.Quo(One(), NewFromInt64(3, 0)) // u = (2-1)/(2+1) = 1/3
	if err != nil {
		return nil, err
	}
	at, err := atanhSeries(hp, u)
	if err != nil {
		return nil, err
	}
	two := Two()
	ln2, err := hp.Mul(two, at)
	if err != nil {
		return nil, err
	}
	return ic.Quantize(ln2)
}

// atanhSeries evaluates atanh(u) = u + u^3/3 + u^5/5 + ... under ic,
// bounded by MaxSeriesIterations and terminating once a term's magnitude
// drops below the convergence threshold.
func atanhSeries(ic *Context, u *Decimal) (*Decimal, error) {
	threshold := seriesThreshold(ic.precision)
	u2, err := ic.Mul(u, u)
	if err != nil {
		return nil, err
	}
	sum := new(Decimal)
	*sum = *u
	power := new(Decimal)
	*power = *u
	for n := 1; n < MaxSeriesIterations; n++ {
		power, err = ic.Mul(power, u2)
		if err != nil {
			return nil, err
		}
		denom := NewFromInt64(int64(2*n+1), 0)
		term, err := ic.Quo(power, denom)
		if err != nil {
			return nil, err
		}
		sum, err = ic.Add(sum, term)
		if err != nil {
			return nil, err
		}
		absTerm, err := ic.Abs(term)
		if err != nil {
			return nil, err
		}
		if Cmp(absTerm, threshold) < 0 {
			return sum, nil
		}
	}
	return nil, result.NewDomainError("SERIES_NO_CONVERGE", "atanh series did not converge within iteration bound")
}

// expSeries evaluates exp(r) = sum r^n/n! for |r| small (post range
// reduction), bounded by MaxSeriesIterations.
func expSeries(ic *Context, r *Decimal) (*Decimal, error) {
	threshold := seriesThreshold(ic.precision)
	sum := One()
	term := One()
	var err error
	for n := 1; n < MaxSeriesIterations; n++ {
		term, err = ic.Mul(term, r)
		if err != nil {
			return nil, err
		}
		term, err = ic.Quo(term, NewFromInt64(int64(n), 0))
		if err != nil {
			return nil, err
		}
		sum, err = ic.Add(sum, term)
		if err != nil {
			return nil, err
		}
		absTerm, err := ic.Abs(term)
		if err != nil {
			return nil, err
		}
		if Cmp(absTerm, threshold) < 0 {
			return sum, nil
		}
	}
	return nil, result.NewDomainError("SERIES_NO_CONVERGE", "exp series did not converge within iteration bound")
}

// powerOfTwo computes 2^n (n >= 0) exactly via repeated doubling under ic.
func powerOfTwo(ic *Context, n int64) (*Decimal, error) {
	result := One()
	var err error
	two := Two()
	for i := int64(0); i < n; i++ {
		result, err = ic.Mul(result, two)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Exp computes exp(x) entirely in decimal arithmetic: range-reduce
// x = k*ln2 + r with |r| <= ln2/2, evaluate exp(r) by Taylor series, then
// rescale by 2^k exactly (multiplication for k >= 0, division for k < 0).
// exp(0) returns 1 exactly.
func (c *Context) Exp(x *Decimal) (*Decimal, error) {
	if IsZero(x) {
		return c.Quantize(One())
	}
	ic := c.internal()
	ln2, err := ln2Constant(ic)
	if err != nil {
		return nil, err
	}
	kRaw, err := ic.Quo(x, ln2)
	if err != nil {
		return nil, err
	}
	kDec := new(Decimal)
	cond, aerr := ic.apdContext().RoundToIntegralValue(kDec, kRaw)
	if werr := wrapCondition("ROUND_INT", cond, aerr); werr != nil {
		return nil, werr
	}
	k, aerr := kDec.Int64()
	if aerr != nil {
		return nil, result.NewDomainError("EXP_RANGE", "range reduction integer k out of bounds: "+aerr.Error())
	}
	kLn2, err := ic.Mul(kDec, ln2)
	if err != nil {
		return nil, err
	}
	r, err := ic.Sub(x, kLn2)
	if err != nil {
		return nil, err
	}
	expR, err := expSeries(ic, r)
	if err != nil {
		return nil, err
	}
	var scaled *Decimal
	if k >= 0 {
		pow, err := powerOfTwo(ic, k)
		if err != nil {
			return nil, err
		}
		scaled, err = ic.Mul(expR, pow)
		if err != nil {
			return nil, err
		}
	} else {
		pow, err := powerOfTwo(ic, -k)
		if err != nil {
			return nil, err
		}
		scaled, err = ic.Quo(expR, pow)
		if err != nil {
			return nil, err
		}
	}
	return c.Quantize(scaled)
}

// Ln computes ln(x) entirely in decimal arithmetic: reject x <= 0, return
// 0 exactly for x == 1, otherwise scale x into [0.5, 2) by exact powers of
// 2 tracking exponent e, evaluate ln(m) = 2*atanh((m-1)/(m+1)) by series,
// and return ln(m) + e*ln2.
func (c *Context) Ln(x *Decimal) (*Decimal, error) {
	if Sign(x) <= 0 {
		return nil, result.NewDomainError("LN_NONPOSITIVE", "ln of non-positive value "+String(x))
	}
	one := One()
	if Cmp(x, one) == 0 {
		return c.Quantize(Zero())
	}
	ic := c.internal()
	m := new(Decimal)
	*m = *x
	var e int64
	two := Two()
	half := MustParse("0.5")
	var err error
	for i := 0; i < 2000 && Cmp(m, two) >= 0; i++ {
		m, err = ic.Quo(m, two)
		if err != nil {
			return nil, err
		}
		e++
	}
	for i := 0; i < 2000 && Cmp(m, half) < 0; i++ {
		m, err = ic.Mul(m, two)
		if err != nil {
			return nil, err
		}
		e--
	}
	num, err := ic.Sub(m, one)
	if err != nil {
		return nil, err
	}
	den, err := ic.Add(m, one)
	if err != nil {
		return nil, err
	}
	u, err := ic.Quo(num, den)
	if err != nil {
		return nil, err
	}
	at, err := atanhSeries(ic, u)
	if err != nil {
		return nil, err
	}
	lnM, err := ic.Mul(two, at)
	if err != nil {
		return nil, err
	}
	ln2, err := ln2Constant(ic)
	if err != nil {
		return nil, err
	}
	eLn2, err := ic.Mul(NewFromInt64(e, 0), ln2)
	if err != nil {
		return nil, err
	}
	total, err := ic.Add(lnM, eLn2)
	if err != nil {
		return nil, err
	}
	return c.Quantize(total)
}

// Expm1Neg computes 1 - exp(-x). For |x| < 1 it uses the direct series
// sum (-1)^(n+1) x^n / n! to avoid the catastrophic cancellation of
// computing exp(-x) near 1 and subtracting from 1; for larger |x| it
// computes 1 - exp(-x) directly since cancellation is no longer an issue.
func (c *Context) Expm1Neg(x *Decimal) (*Decimal, error) {
	ic := c.internal()
	absX, err := ic.Abs(x)
	if err != nil {
		return nil, err
	}
	if Cmp(absX, One()) < 0 {
		threshold := seriesThreshold(ic.precision)
		sum := Zero()
		term := One()
		for n := 1; n < MaxSeriesIterations; n++ {
			term, err = ic.Mul(term, x)
			if err != nil {
				return nil, err
			}
			term, err = ic.Quo(term, NewFromInt64(int64(n), 0))
			if err != nil {
				return nil, err
			}
			var signed *Decimal
			if n%2 == 1 {
				signed = term
			} else {
				signed, err = ic.Neg(term)
				if err != nil {
					return nil, err
				}
			}
			sum, err = ic.Add(sum, signed)
			if err != nil {
				return nil, err
			}
			absTerm, err := ic.Abs(term)
			if err != nil {
				return nil, err
			}
			if Cmp(absTerm, threshold) < 0 {
				return c.Quantize(sum)
			}
		}
		return nil, result.NewDomainError("SERIES_NO_CONVERGE", "expm1_neg series did not converge within iteration bound")
	}
	negX, err := ic.Neg(x)
	if err != nil {
		return nil, err
	}
	expNegX, err := ic.Exp(negX)
	if err != nil {
		return nil, err
	}
	out, err := ic.Sub(One(), expNegX)
	if err != nil {
		return nil, err
	}
	return c.Quantize(out)
}

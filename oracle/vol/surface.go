package vol

import (
	"sort"
	"strconv"

	"github.com/withobsrvr/attestor/attestation"
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/result"
)

// Slice pairs one calibrated SVI parameter set with its per-expiry SSE.
type Slice struct {
	Params SVIParameters
	SSE    *decimal.Decimal
}

// Surface is an assembled, ascending-expiry set of SVI slices for one
// underlying.
type Surface struct {
	Underlying string
	Slices     []Slice
}

// New validates that slices are non-empty and sorted ascending by
// expiry with no duplicate expiries.
func New(underlying string, slices []Slice) (Surface, error) {
	if len(slices) == 0 {
		return Surface{}, result.NewValidationError(result.FieldViolation{
			Path: "slices", Constraint: "must be non-empty", Actual: "[]",
		})
	}
	sorted := append([]Slice(nil), slices...)
	sort.Slice(sorted, func(i, j int) bool {
		return decimal.Cmp(sorted[i].Params.Expiry, sorted[j].Params.Expiry) < 0
	})
	for i := 1; i < len(sorted); i++ {
		if decimal.Cmp(sorted[i].Params.Expiry, sorted[i-1].Params.Expiry) == 0 {
			return Surface{}, result.NewValidationError(result.FieldViolation{
				Path: "slices", Constraint: "expiries must be distinct", Actual: decimal.String(sorted[i].Params.Expiry),
			})
		}
	}
	return Surface{Underlying: underlying, Slices: sorted}, nil
}

func (s Surface) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteString(s.Underlying)
	w.WriteSequence(len(s.Slices), func(i int) {
		p := s.Slices[i].Params
		w.WriteDecimal(decimal.String(p.A))
		w.WriteDecimal(decimal.String(p.B))
		w.WriteDecimal(decimal.String(p.Rho))
		w.WriteDecimal(decimal.String(p.M))
		w.WriteDecimal(decimal.String(p.Sigma))
		w.WriteDecimal(decimal.String(p.Expiry))
	})
	return w.Bytes(), nil
}

// CalibrationInput is one expiry's smile quotes for global calibration.
type CalibrationInput struct {
	Expiry *decimal.Decimal
	Quotes []SmileQuote
}

// FitQuality summarizes a global calibration's goodness of fit.
type FitQuality struct {
	RMSE     *decimal.Decimal
	MaxError *decimal.Decimal
}

// Calibrate dispatches CalibrateSlice per expiry, concatenates the
// resulting slices into a Surface, and derives the overall rmse and
// max_error the attestation's fit-quality map carries.
func Calibrate(ctx *decimal.Context, underlying string, inputs []CalibrationInput) (Surface, FitQuality, error) {
	slices := make([]Slice, 0, len(inputs))
	var totalSSE *decimal.Decimal = decimal.Zero()
	var totalN int
	var maxResidSq *decimal.Decimal = decimal.Zero()

	for _, in := range inputs {
		params, sse, err := CalibrateSlice(ctx, in.Quotes, in.Expiry)
		if err != nil {
			return Surface{}, FitQuality{}, err
		}
		slices = append(slices, Slice{Params: params, SSE: sse})

		sum, err := ctx.Add(totalSSE, sse)
		if err != nil {
			return Surface{}, FitQuality{}, err
		}
		totalSSE = sum
		totalN += len(in.Quotes)

		for _, q := range in.Quotes {
			fitted, err := SVITotalVariance(ctx, params, q.K)
			if err != nil {
				return Surface{}, FitQuality{}, err
			}
			resid, err := ctx.Sub(q.W, fitted)
			if err != nil {
				return Surface{}, FitQuality{}, err
			}
			residSq, err := ctx.Mul(resid, resid)
			if err != nil {
				return Surface{}, FitQuality{}, err
			}
			if decimal.Cmp(residSq, maxResidSq) > 0 {
				maxResidSq = residSq
			}
		}
	}

	surface, err := New(underlying, slices)
	if err != nil {
		return Surface{}, FitQuality{}, err
	}

	if totalN == 0 {
		totalN = 1
	}
	mse, err := ctx.Quo(totalSSE, decimal.MustParse(strconv.Itoa(totalN)))
	if err != nil {
		return Surface{}, FitQuality{}, err
	}
	rmse, err := ctx.Sqrt(mse)
	if err != nil {
		return Surface{}, FitQuality{}, err
	}
	maxError, err := ctx.Sqrt(maxResidSq)
	if err != nil {
		return Surface{}, FitQuality{}, err
	}

	return surface, FitQuality{RMSE: rmse, MaxError: maxError}, nil
}

// SVITotalVariance computes w(p,k) = a + b*(rho*(k-m) + sqrt((k-m)^2 + sigma^2)).
func SVITotalVariance(ctx *decimal.Context, p SVIParameters, k *decimal.Decimal) (*decimal.Decimal, error) {
	kMinusM, err := ctx.Sub(k, p.M)
	if err != nil {
		return nil, err
	}
	rhoTerm, err := ctx.Mul(p.Rho, kMinusM)
	if err != nil {
		return nil, err
	}
	kMinusMSq, err := ctx.Mul(kMinusM, kMinusM)
	if err != nil {
		return nil, err
	}
	sigmaSq, err := ctx.Mul(p.Sigma, p.Sigma)
	if err != nil {
		return nil, err
	}
	sumSq, err := ctx.Add(kMinusMSq, sigmaSq)
	if err != nil {
		return nil, err
	}
	sqrtTerm, err := ctx.Sqrt(sumSq)
	if err != nil {
		return nil, err
	}
	bracket, err := ctx.Add(rhoTerm, sqrtTerm)
	if err != nil {
		return nil, err
	}
	bBracket, err := ctx.Mul(p.B, bracket)
	if err != nil {
		return nil, err
	}
	return ctx.Add(p.A, bBracket)
}

// sviFirstDerivative computes dw/dk at k for slice p.
func sviFirstDerivative(ctx *decimal.Context, p SVIParameters, k *decimal.Decimal) (*decimal.Decimal, error) {
	kMinusM, err := ctx.Sub(k, p.M)
	if err != nil {
		return nil, err
	}
	kMinusMSq, err := ctx.Mul(kMinusM, kMinusM)
	if err != nil {
		return nil, err
	}
	sigmaSq, err := ctx.Mul(p.Sigma, p.Sigma)
	if err != nil {
		return nil, err
	}
	sumSq, err := ctx.Add(kMinusMSq, sigmaSq)
	if err != nil {
		return nil, err
	}
	sqrtTerm, err := ctx.Sqrt(sumSq)
	if err != nil {
		return nil, err
	}
	uOverV, err := ctx.Quo(kMinusM, sqrtTerm)
	if err != nil {
		return nil, err
	}
	inner, err := ctx.Add(p.Rho, uOverV)
	if err != nil {
		return nil, err
	}
	return ctx.Mul(p.B, inner)
}

// sviSecondDerivative computes d2w/dk2 at k for slice p:
// b*sigma^2 / ((k-m)^2+sigma^2)^(3/2).
func sviSecondDerivative(ctx *decimal.Context, p SVIParameters, k *decimal.Decimal) (*decimal.Decimal, error) {
	kMinusM, err := ctx.Sub(k, p.M)
	if err != nil {
		return nil, err
	}
	kMinusMSq, err := ctx.Mul(kMinusM, kMinusM)
	if err != nil {
		return nil, err
	}
	sigmaSq, err := ctx.Mul(p.Sigma, p.Sigma)
	if err != nil {
		return nil, err
	}
	sumSq, err := ctx.Add(kMinusMSq, sigmaSq)
	if err != nil {
		return nil, err
	}
	sqrtTerm, err := ctx.Sqrt(sumSq)
	if err != nil {
		return nil, err
	}
	denom, err := ctx.Mul(sumSq, sqrtTerm)
	if err != nil {
		return nil, err
	}
	numer, err := ctx.Mul(p.B, sigmaSq)
	if err != nil {
		return nil, err
	}
	return ctx.Quo(numer, denom)
}

// sliceForExpiry returns the slice exactly matching T, or nil if none
// matches.
func (s Surface) sliceForExpiry(t *decimal.Decimal) *Slice {
	for i := range s.Slices {
		if decimal.Cmp(s.Slices[i].Params.Expiry, t) == 0 {
			return &s.Slices[i]
		}
	}
	return nil
}

// ImpliedVol returns sqrt(w/T): exact slice if T matches one, nearest
// slice if T is outside the expiry range, else linear interpolation of
// w in T between bracketing slices.
func (s Surface) ImpliedVol(ctx *decimal.Context, k, t *decimal.Decimal) (*decimal.Decimal, error) {
	w, err := s.totalVarianceAtExpiry(ctx, k, t)
	if err != nil {
		return nil, err
	}
	if decimal.Sign(w) <= 0 {
		return nil, result.NewPricingError("implied_vol: total variance is not strictly positive at the requested (k,T)")
	}
	wOverT, err := ctx.Quo(w, t)
	if err != nil {
		return nil, err
	}
	return ctx.Sqrt(wOverT)
}

func (s Surface) totalVarianceAtExpiry(ctx *decimal.Context, k, t *decimal.Decimal) (*decimal.Decimal, error) {
	if exact := s.sliceForExpiry(t); exact != nil {
		return SVITotalVariance(ctx, exact.Params, k)
	}

	n := len(s.Slices)
	first, last := s.Slices[0], s.Slices[n-1]
	if decimal.Cmp(t, first.Params.Expiry) < 0 {
		return SVITotalVariance(ctx, first.Params, k)
	}
	if decimal.Cmp(t, last.Params.Expiry) > 0 {
		return SVITotalVariance(ctx, last.Params, k)
	}

	for i := 1; i < n; i++ {
		lo, hi := s.Slices[i-1], s.Slices[i]
		if decimal.Cmp(t, hi.Params.Expiry) <= 0 {
			wLo, err := SVITotalVariance(ctx, lo.Params, k)
			if err != nil {
				return nil, err
			}
			wHi, err := SVITotalVariance(ctx, hi.Params, k)
			if err != nil {
				return nil, err
			}
			tDiff, err := ctx.Sub(hi.Params.Expiry, lo.Params.Expiry)
			if err != nil {
				return nil, err
			}
			frac, err := ctx.Sub(t, lo.Params.Expiry)
			if err != nil {
				return nil, err
			}
			frac, err = ctx.Quo(frac, tDiff)
			if err != nil {
				return nil, err
			}
			wDiff, err := ctx.Sub(wHi, wLo)
			if err != nil {
				return nil, err
			}
			weighted, err := ctx.Mul(frac, wDiff)
			if err != nil {
				return nil, err
			}
			return ctx.Add(wLo, weighted)
		}
	}
	return SVITotalVariance(ctx, last.Params, k)
}

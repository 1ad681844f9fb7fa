// Package vol implements SVI per-slice volatility calibration, the
// assembled vol surface with total-variance and implied-vol evaluation,
// and the surface arbitrage-freedom gates (AF-VS-01..06).
package vol

import (
	"strconv"

	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/result"
)

// SVIParameters is one validated raw-SVI slice: a,b,rho,m,sigma at one
// expiry, satisfying C1-C5.
type SVIParameters struct {
	A, B, Rho, M, Sigma *decimal.Decimal
	Expiry              *decimal.Decimal
}

// NewSVIParameters is the smart constructor enforcing C1-C5:
//   C1: a + b*sigma*sqrt(1-rho^2) >= 0  (vertex non-negativity)
//   C2: b >= 0
//   C3: |rho| < 1
//   C4: sigma > 0
//   C5: b*(1+|rho|) <= 2  (Roger-Lee bound)
func NewSVIParameters(ctx *decimal.Context, a, b, rho, m, sigma, expiry *decimal.Decimal) (SVIParameters, error) {
	ve := result.NewValidationError()

	if decimal.Sign(b) < 0 {
		ve.Field("b", "must be >= 0 (C2)", decimal.String(b))
	}
	one := decimal.One()
	absRho, err := ctx.Abs(rho)
	if err != nil {
		return SVIParameters{}, err
	}
	if decimal.Cmp(absRho, one) >= 0 {
		ve.Field("rho", "must satisfy |rho| < 1 (C3)", decimal.String(rho))
	}
	if decimal.Sign(sigma) <= 0 {
		ve.Field("sigma", "must be > 0 (C4)", decimal.String(sigma))
	}
	if decimal.Sign(expiry) <= 0 {
		ve.Field("expiry", "must be > 0", decimal.String(expiry))
	}
	if ve.HasViolations() {
		return SVIParameters{}, ve
	}

	rhoSq, err := ctx.Mul(rho, rho)
	if err != nil {
		return SVIParameters{}, err
	}
	oneMinusRhoSq, err := ctx.Sub(one, rhoSq)
	if err != nil {
		return SVIParameters{}, err
	}
	sqrtTerm, err := ctx.Sqrt(oneMinusRhoSq)
	if err != nil {
		return SVIParameters{}, err
	}
	bSigma, err := ctx.Mul(b, sigma)
	if err != nil {
		return SVIParameters{}, err
	}
	vertexTerm, err := ctx.Mul(bSigma, sqrtTerm)
	if err != nil {
		return SVIParameters{}, err
	}
	vertex, err := ctx.Add(a, vertexTerm)
	if err != nil {
		return SVIParameters{}, err
	}
	if decimal.Sign(vertex) < 0 {
		ve.Field("a", "a + b*sigma*sqrt(1-rho^2) must be >= 0 (C1)", decimal.String(vertex))
	}

	two := decimal.MustParse("2")
	onePlusAbsRho, err := ctx.Add(one, absRho)
	if err != nil {
		return SVIParameters{}, err
	}
	rogerLee, err := ctx.Mul(b, onePlusAbsRho)
	if err != nil {
		return SVIParameters{}, err
	}
	if decimal.Cmp(rogerLee, two) > 0 {
		ve.Field("b", "b*(1+|rho|) must be <= 2 (C5)", decimal.String(rogerLee))
	}

	if ve.HasViolations() {
		return SVIParameters{}, ve
	}
	return SVIParameters{A: a, B: b, Rho: rho, M: m, Sigma: sigma, Expiry: expiry}, nil
}

// SmileQuote is one (log-moneyness, total-variance) observation at a
// single expiry.
type SmileQuote struct {
	K *decimal.Decimal
	W *decimal.Decimal
}

var sigmaGrid = []string{"0.05", "0.10", "0.15", "0.20", "0.30", "0.40", "0.50"}

// CalibrateSlice grid-searches m in k_mid + k_range*{-0.5,...,0.5} (11
// steps) and sigma over the fixed grid above. At each (m,sigma) it
// solves the linear model w = alpha + beta*u + gamma*v (u = k-m,
// v = sqrt(u^2+sigma^2)) via Cramer's rule over the normal equations,
// rejects gamma <= 0 or |beta/gamma| >= 1, recovers a=alpha, b=gamma,
// rho=beta/gamma, validates C1-C5, and retains the candidate with the
// lowest SSE.
func CalibrateSlice(ctx *decimal.Context, quotes []SmileQuote, expiry *decimal.Decimal) (SVIParameters, *decimal.Decimal, error) {
	if len(quotes) < 3 {
		return SVIParameters{}, nil, result.NewValidationError(result.FieldViolation{
			Path: "quotes", Constraint: "at least 3 (k,w) points are required to fit a,b,rho", Actual: strconv.Itoa(len(quotes)),
		})
	}

	kMin, kMax := quotes[0].K, quotes[0].K
	for _, q := range quotes[1:] {
		if decimal.Cmp(q.K, kMin) < 0 {
			kMin = q.K
		}
		if decimal.Cmp(q.K, kMax) > 0 {
			kMax = q.K
		}
	}
	kMid, err := ctx.Add(kMin, kMax)
	if err != nil {
		return SVIParameters{}, nil, err
	}
	kMid, err = ctx.Quo(kMid, decimal.MustParse("2"))
	if err != nil {
		return SVIParameters{}, nil, err
	}
	kRange, err := ctx.Sub(kMax, kMin)
	if err != nil {
		return SVIParameters{}, nil, err
	}

	var best *SVIParameters
	var bestSSE *decimal.Decimal

	mSteps := []string{"-0.5", "-0.4", "-0.3", "-0.2", "-0.1", "0.0", "0.1", "0.2", "0.3", "0.4", "0.5"}
	for _, mStepStr := range mSteps {
		mStep := decimal.MustParse(mStepStr)
		mOffset, err := ctx.Mul(kRange, mStep)
		if err != nil {
			return SVIParameters{}, nil, err
		}
		m, err := ctx.Add(kMid, mOffset)
		if err != nil {
			return SVIParameters{}, nil, err
		}

		for _, sigmaStr := range sigmaGrid {
			sigma := decimal.MustParse(sigmaStr)
			params, sse, ok, err := fitLinearModel(ctx, quotes, m, sigma, expiry)
			if err != nil {
				return SVIParameters{}, nil, err
			}
			if !ok {
				continue
			}
			if best == nil || decimal.Cmp(sse, bestSSE) < 0 {
				p := params
				best = &p
				bestSSE = sse
			}
		}
	}

	if best == nil {
		return SVIParameters{}, nil, result.NewPricingError("SVI calibration: no (m,sigma) grid point produced a valid fit satisfying C1-C5 and gamma>0, |beta/gamma|<1")
	}
	return *best, bestSSE, nil
}

// fitLinearModel solves w = alpha + beta*u + gamma*v by least squares
// (normal equations via Cramer's rule) for fixed (m,sigma), then
// recovers and validates the SVI parameters.
func fitLinearModel(ctx *decimal.Context, quotes []SmileQuote, m, sigma, expiry *decimal.Decimal) (SVIParameters, *decimal.Decimal, bool, error) {
	n := len(quotes)
	u := make([]*decimal.Decimal, n)
	v := make([]*decimal.Decimal, n)
	w := make([]*decimal.Decimal, n)

	for i, q := range quotes {
		ui, err := ctx.Sub(q.K, m)
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		uiSq, err := ctx.Mul(ui, ui)
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		sigmaSq, err := ctx.Mul(sigma, sigma)
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		sumSq, err := ctx.Add(uiSq, sigmaSq)
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		vi, err := ctx.Sqrt(sumSq)
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		u[i], v[i], w[i] = ui, vi, q.W
	}

	// Normal equations for [alpha, beta, gamma] minimizing sum (w_i -
	// alpha - beta*u_i - gamma*v_i)^2:
	//   [n    Su   Sv ] [alpha]   [Sw  ]
	//   [Su   Suu  Suv] [beta ] = [Swu ]
	//   [Sv   Suv  Svv] [gamma]   [Swv ]
	zero := decimal.Zero()
	Su, Sv, Sw := zero, zero, zero
	Suu, Svv, Suv := zero, zero, zero
	Swu, Swv := zero, zero
	nDec := decimal.MustParse(strconv.Itoa(n))

	sum := func(acc **decimal.Decimal, term *decimal.Decimal) error {
		s, err := ctx.Add(*acc, term)
		if err != nil {
			return err
		}
		*acc = s
		return nil
	}

	for i := 0; i < n; i++ {
		if err := sum(&Su, u[i]); err != nil {
			return SVIParameters{}, nil, false, err
		}
		if err := sum(&Sv, v[i]); err != nil {
			return SVIParameters{}, nil, false, err
		}
		if err := sum(&Sw, w[i]); err != nil {
			return SVIParameters{}, nil, false, err
		}
		uu, err := ctx.Mul(u[i], u[i])
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		if err := sum(&Suu, uu); err != nil {
			return SVIParameters{}, nil, false, err
		}
		vv, err := ctx.Mul(v[i], v[i])
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		if err := sum(&Svv, vv); err != nil {
			return SVIParameters{}, nil, false, err
		}
		uv, err := ctx.Mul(u[i], v[i])
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		if err := sum(&Suv, uv); err != nil {
			return SVIParameters{}, nil, false, err
		}
		wu, err := ctx.Mul(w[i], u[i])
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		if err := sum(&Swu, wu); err != nil {
			return SVIParameters{}, nil, false, err
		}
		wv, err := ctx.Mul(w[i], v[i])
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		if err := sum(&Swv, wv); err != nil {
			return SVIParameters{}, nil, false, err
		}
	}

	det, err := det3(ctx,
		nDec, Su, Sv,
		Su, Suu, Suv,
		Sv, Suv, Svv,
	)
	if err != nil {
		return SVIParameters{}, nil, false, err
	}
	if decimal.IsZero(det) {
		return SVIParameters{}, nil, false, nil
	}

	detAlpha, err := det3(ctx,
		Sw, Su, Sv,
		Swu, Suu, Suv,
		Swv, Suv, Svv,
	)
	if err != nil {
		return SVIParameters{}, nil, false, err
	}
	detBeta, err := det3(ctx,
		nDec, Sw, Sv,
		Su, Swu, Suv,
		Sv, Swv, Svv,
	)
	if err != nil {
		return SVIParameters{}, nil, false, err
	}
	detGamma, err := det3(ctx,
		nDec, Su, Sw,
		Su, Suu, Swu,
		Sv, Suv, Swv,
	)
	if err != nil {
		return SVIParameters{}, nil, false, err
	}

	alpha, err := ctx.Quo(detAlpha, det)
	if err != nil {
		return SVIParameters{}, nil, false, err
	}
	beta, err := ctx.Quo(detBeta, det)
	if err != nil {
		return SVIParameters{}, nil, false, err
	}
	gamma, err := ctx.Quo(detGamma, det)
	if err != nil {
		return SVIParameters{}, nil, false, err
	}

	if decimal.Sign(gamma) <= 0 {
		return SVIParameters{}, nil, false, nil
	}
	betaOverGamma, err := ctx.Quo(beta, gamma)
	if err != nil {
		return SVIParameters{}, nil, false, err
	}
	absBetaOverGamma, err := ctx.Abs(betaOverGamma)
	if err != nil {
		return SVIParameters{}, nil, false, err
	}
	if decimal.Cmp(absBetaOverGamma, decimal.One()) >= 0 {
		return SVIParameters{}, nil, false, nil
	}

	params, err := NewSVIParameters(ctx, alpha, gamma, betaOverGamma, m, sigma, expiry)
	if err != nil {
		return SVIParameters{}, nil, false, nil
	}

	sse := zero
	for i := 0; i < n; i++ {
		fitted, err := totalVarianceRaw(ctx, alpha, beta, gamma, u[i], v[i])
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		resid, err := ctx.Sub(w[i], fitted)
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		residSq, err := ctx.Mul(resid, resid)
		if err != nil {
			return SVIParameters{}, nil, false, err
		}
		if err := sum(&sse, residSq); err != nil {
			return SVIParameters{}, nil, false, err
		}
	}

	return params, sse, true, nil
}

func totalVarianceRaw(ctx *decimal.Context, alpha, beta, gamma, u, v *decimal.Decimal) (*decimal.Decimal, error) {
	bu, err := ctx.Mul(beta, u)
	if err != nil {
		return nil, err
	}
	gv, err := ctx.Mul(gamma, v)
	if err != nil {
		return nil, err
	}
	sum, err := ctx.Add(alpha, bu)
	if err != nil {
		return nil, err
	}
	return ctx.Add(sum, gv)
}

// det3 computes the determinant of a 3x3 matrix given row-major.
func det3(ctx *decimal.Context, a11, a12, a13, a21, a22, a23, a31, a32, a33 *decimal.Decimal) (*decimal.Decimal, error) {
	t1, err := ctx.Mul(a22, a33)
	if err != nil {
		return nil, err
	}
	t2, err := ctx.Mul(a23, a32)
	if err != nil {
		return nil, err
	}
	minor1, err := ctx.Sub(t1, t2)
	if err != nil {
		return nil, err
	}
	term1, err := ctx.Mul(a11, minor1)
	if err != nil {
		return nil, err
	}

	t3, err := ctx.Mul(a21, a33)
	if err != nil {
		return nil, err
	}
	t4, err := ctx.Mul(a23, a31)
	if err != nil {
		return nil, err
	}
	minor2, err := ctx.Sub(t3, t4)
	if err != nil {
		return nil, err
	}
	term2, err := ctx.Mul(a12, minor2)
	if err != nil {
		return nil, err
	}

	t5, err := ctx.Mul(a21, a32)
	if err != nil {
		return nil, err
	}
	t6, err := ctx.Mul(a22, a31)
	if err != nil {
		return nil, err
	}
	minor3, err := ctx.Sub(t5, t6)
	if err != nil {
		return nil, err
	}
	term3, err := ctx.Mul(a13, minor3)
	if err != nil {
		return nil, err
	}

	d, err := ctx.Sub(term1, term2)
	if err != nil {
		return nil, err
	}
	return ctx.Add(d, term3)
}

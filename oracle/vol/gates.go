package vol

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/logging"
)

// Severity classifies a gate failure's urgency.
type Severity int

const (
	Critical Severity = iota
	High
)

// GateResult reports one gate's outcome.
type GateResult struct {
	Gate     string
	Severity Severity
	Passed   bool
	Detail   string
}

// Gates evaluates AF-VS-01 through AF-VS-06 over the surface at the
// supplied grid of log-moneyness points, using tol as the tolerance
// shared by the calendar-spread, Durrleman, positivity, and ATM-
// monotonicity checks.
func Gates(ctx *decimal.Context, surface Surface, kGrid []*decimal.Decimal, tol *decimal.Decimal) ([]GateResult, error) {
	var results []GateResult

	cs, err := calendarSpreadGate(ctx, surface, kGrid, tol)
	if err != nil {
		return nil, err
	}
	results = append(results, cs)

	durr, err := durrlemanGate(ctx, surface, kGrid, tol)
	if err != nil {
		return nil, err
	}
	results = append(results, durr)

	rlUpper, err := rogerLeeGateUpper(ctx, surface)
	if err != nil {
		return nil, err
	}
	results = append(results, rlUpper)

	rlLower, err := rogerLeeGateLower(ctx, surface)
	if err != nil {
		return nil, err
	}
	results = append(results, rlLower)

	pos, err := positivityGate(ctx, surface, kGrid, tol)
	if err != nil {
		return nil, err
	}
	results = append(results, pos)

	atm, err := atmMonotonicityGate(ctx, surface, tol)
	if err != nil {
		return nil, err
	}
	results = append(results, atm)

	for _, r := range results {
		if !r.Passed {
			logging.L().Warn("gate failed", zap.String("gate", r.Gate), zap.Int("severity", int(r.Severity)), zap.String("detail", r.Detail))
		}
	}

	return results, nil
}

// calendarSpreadGate (AF-VS-01, critical): for adjacent slices and all
// grid points, w(k,T_{i+1}) >= w(k,T_i) - tol.
func calendarSpreadGate(ctx *decimal.Context, surface Surface, kGrid []*decimal.Decimal, tol *decimal.Decimal) (GateResult, error) {
	for i := 1; i < len(surface.Slices); i++ {
		lo, hi := surface.Slices[i-1], surface.Slices[i]
		for _, k := range kGrid {
			wLo, err := SVITotalVariance(ctx, lo.Params, k)
			if err != nil {
				return GateResult{}, err
			}
			wHi, err := SVITotalVariance(ctx, hi.Params, k)
			if err != nil {
				return GateResult{}, err
			}
			floor, err := ctx.Sub(wLo, tol)
			if err != nil {
				return GateResult{}, err
			}
			if decimal.Cmp(wHi, floor) < 0 {
				return GateResult{Gate: "AF-VS-01", Severity: Critical, Passed: false,
					Detail: fmt.Sprintf("w(k=%s, T_%d)=%s < w(k=%s, T_%d)=%s - tol", decimal.String(k), i, decimal.String(wHi), decimal.String(k), i-1, decimal.String(wLo))}, nil
			}
		}
	}
	return GateResult{Gate: "AF-VS-01", Severity: Critical, Passed: true}, nil
}

// durrlemanGate (AF-VS-02, critical):
// g(k) = (1 - k*w'/(2w))^2 - (w')^2/4*(1/w + 1/4) + w''/2 >= -tol,
// skipping grid points where w <= 1e-20.
func durrlemanGate(ctx *decimal.Context, surface Surface, kGrid []*decimal.Decimal, tol *decimal.Decimal) (GateResult, error) {
	wFloor := decimal.MustParse("0.00000000000000000001")
	negTol, err := ctx.Neg(tol)
	if err != nil {
		return GateResult{}, err
	}
	one, two, four := decimal.One(), decimal.MustParse("2"), decimal.MustParse("4")
	quarter := decimal.MustParse("0.25")

	for si, slice := range surface.Slices {
		for _, k := range kGrid {
			w, err := SVITotalVariance(ctx, slice.Params, k)
			if err != nil {
				return GateResult{}, err
			}
			if decimal.Cmp(w, wFloor) <= 0 {
				continue
			}
			wp, err := sviFirstDerivative(ctx, slice.Params, k)
			if err != nil {
				return GateResult{}, err
			}
			wpp, err := sviSecondDerivative(ctx, slice.Params, k)
			if err != nil {
				return GateResult{}, err
			}

			kwp, err := ctx.Mul(k, wp)
			if err != nil {
				return GateResult{}, err
			}
			twoW, err := ctx.Mul(two, w)
			if err != nil {
				return GateResult{}, err
			}
			ratio, err := ctx.Quo(kwp, twoW)
			if err != nil {
				return GateResult{}, err
			}
			term1Base, err := ctx.Sub(one, ratio)
			if err != nil {
				return GateResult{}, err
			}
			term1, err := ctx.Mul(term1Base, term1Base)
			if err != nil {
				return GateResult{}, err
			}

			wpSq, err := ctx.Mul(wp, wp)
			if err != nil {
				return GateResult{}, err
			}
			wpSqOver4, err := ctx.Quo(wpSq, four)
			if err != nil {
				return GateResult{}, err
			}
			invW, err := ctx.Quo(one, w)
			if err != nil {
				return GateResult{}, err
			}
			bracket, err := ctx.Add(invW, quarter)
			if err != nil {
				return GateResult{}, err
			}
			term2, err := ctx.Mul(wpSqOver4, bracket)
			if err != nil {
				return GateResult{}, err
			}

			term3, err := ctx.Quo(wpp, two)
			if err != nil {
				return GateResult{}, err
			}

			g, err := ctx.Sub(term1, term2)
			if err != nil {
				return GateResult{}, err
			}
			g, err = ctx.Add(g, term3)
			if err != nil {
				return GateResult{}, err
			}

			if decimal.Cmp(g, negTol) < 0 {
				return GateResult{Gate: "AF-VS-02", Severity: Critical, Passed: false,
					Detail: fmt.Sprintf("Durrleman g(k=%s) = %s < -tol on slice %d", decimal.String(k), decimal.String(g), si)}, nil
			}
		}
	}
	return GateResult{Gate: "AF-VS-02", Severity: Critical, Passed: true}, nil
}

// rogerLeeGateUpper (AF-VS-03, high): b*(1+rho) <= 2.
func rogerLeeGateUpper(ctx *decimal.Context, surface Surface) (GateResult, error) {
	two := decimal.MustParse("2")
	for i, slice := range surface.Slices {
		onePlusRho, err := ctx.Add(decimal.One(), slice.Params.Rho)
		if err != nil {
			return GateResult{}, err
		}
		bound, err := ctx.Mul(slice.Params.B, onePlusRho)
		if err != nil {
			return GateResult{}, err
		}
		if decimal.Cmp(bound, two) > 0 {
			return GateResult{Gate: "AF-VS-03", Severity: High, Passed: false,
				Detail: fmt.Sprintf("slice %d: b*(1+rho) = %s > 2", i, decimal.String(bound))}, nil
		}
	}
	return GateResult{Gate: "AF-VS-03", Severity: High, Passed: true}, nil
}

// rogerLeeGateLower (AF-VS-04, high): b*(1-rho) <= 2.
func rogerLeeGateLower(ctx *decimal.Context, surface Surface) (GateResult, error) {
	two := decimal.MustParse("2")
	for i, slice := range surface.Slices {
		oneMinusRho, err := ctx.Sub(decimal.One(), slice.Params.Rho)
		if err != nil {
			return GateResult{}, err
		}
		bound, err := ctx.Mul(slice.Params.B, oneMinusRho)
		if err != nil {
			return GateResult{}, err
		}
		if decimal.Cmp(bound, two) > 0 {
			return GateResult{Gate: "AF-VS-04", Severity: High, Passed: false,
				Detail: fmt.Sprintf("slice %d: b*(1-rho) = %s > 2", i, decimal.String(bound))}, nil
		}
	}
	return GateResult{Gate: "AF-VS-04", Severity: High, Passed: true}, nil
}

// positivityGate (AF-VS-05, critical): w(k) >= -tol on grid, for every
// slice.
func positivityGate(ctx *decimal.Context, surface Surface, kGrid []*decimal.Decimal, tol *decimal.Decimal) (GateResult, error) {
	negTol, err := ctx.Neg(tol)
	if err != nil {
		return GateResult{}, err
	}
	for si, slice := range surface.Slices {
		for _, k := range kGrid {
			w, err := SVITotalVariance(ctx, slice.Params, k)
			if err != nil {
				return GateResult{}, err
			}
			if decimal.Cmp(w, negTol) < 0 {
				return GateResult{Gate: "AF-VS-05", Severity: Critical, Passed: false,
					Detail: fmt.Sprintf("w(k=%s) = %s < -tol on slice %d", decimal.String(k), decimal.String(w), si)}, nil
			}
		}
	}
	return GateResult{Gate: "AF-VS-05", Severity: Critical, Passed: true}, nil
}

// atmMonotonicityGate (AF-VS-06, high): w(0,T_{i+1}) >= w(0,T_i) - tol.
func atmMonotonicityGate(ctx *decimal.Context, surface Surface, tol *decimal.Decimal) (GateResult, error) {
	zero := decimal.Zero()
	for i := 1; i < len(surface.Slices); i++ {
		wLo, err := SVITotalVariance(ctx, surface.Slices[i-1].Params, zero)
		if err != nil {
			return GateResult{}, err
		}
		wHi, err := SVITotalVariance(ctx, surface.Slices[i].Params, zero)
		if err != nil {
			return GateResult{}, err
		}
		floor, err := ctx.Sub(wLo, tol)
		if err != nil {
			return GateResult{}, err
		}
		if decimal.Cmp(wHi, floor) < 0 {
			return GateResult{Gate: "AF-VS-06", Severity: High, Passed: false,
				Detail: fmt.Sprintf("w(0,T_%d)=%s < w(0,T_%d)=%s - tol", i, decimal.String(wHi), i-1, decimal.String(wLo))}, nil
		}
	}
	return GateResult{Gate: "AF-VS-06", Severity: High, Passed: true}, nil
}

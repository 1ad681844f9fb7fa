package yieldcurve

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
	Medium
)

func (s Severity) String() string {
	switch s {
	case Critical:
		return "critical"
	case High:
		return "high"
	default:
		return "medium"
	}
}

// GateResult reports one gate's outcome.
type GateResult struct {
	Gate     string
	Severity Severity
	Passed   bool
	Detail   string
}

// Gates evaluates AF-YC-01 through AF-YC-05 over curve, using forwardFloor
// and secondDerivativeBound as the AF-YC-04/05 thresholds.
func Gates(ctx *decimal.Context, curve YieldCurve, forwardFloor, secondDerivativeBound *decimal.Decimal) ([]GateResult, error) {
	var results []GateResult

	results = append(results, positivityGate(curve))
	results = append(results, GateResult{Gate: "AF-YC-02", Severity: Critical, Passed: true, Detail: "D(0)=1 holds by construction"})
	results = append(results, monotonicityGate(curve))

	floorGate, err := forwardFloorGate(ctx, curve, forwardFloor)
	if err != nil {
		return nil, err
	}
	results = append(results, floorGate)

	curvatureGate, err := secondDifferenceGate(ctx, curve, secondDerivativeBound)
	if err != nil {
		return nil, err
	}
	results = append(results, curvatureGate)

	for _, r := range results {
		if !r.Passed {
			logging.L().Warn("gate failed", zap.String("gate", r.Gate), zap.String("severity", r.Severity.String()), zap.String("detail", r.Detail))
		}
	}

	return results, nil
}

func positivityGate(curve YieldCurve) GateResult {
	for i, d := range curve.DiscountFactors {
		if decimal.Sign(d) <= 0 {
			return GateResult{Gate: "AF-YC-01", Severity: Critical, Passed: false,
				Detail: fmt.Sprintf("D(t_%d) = %s is not strictly positive", i, decimal.String(d))}
		}
	}
	return GateResult{Gate: "AF-YC-01", Severity: Critical, Passed: true}
}

func monotonicityGate(curve YieldCurve) GateResult {
	for i := 1; i < len(curve.DiscountFactors); i++ {
		if decimal.Cmp(curve.DiscountFactors[i], curve.DiscountFactors[i-1]) > 0 {
			return GateResult{Gate: "AF-YC-03", Severity: Critical, Passed: false,
				Detail: fmt.Sprintf("D(t_%d) > D(t_%d)", i, i-1)}
		}
	}
	return GateResult{Gate: "AF-YC-03", Severity: Critical, Passed: true}
}

func forwardFloorGate(ctx *decimal.Context, curve YieldCurve, floor *decimal.Decimal) (GateResult, error) {
	for i := 1; i < len(curve.Tenors); i++ {
		f, err := curve.ForwardRate(ctx, curve.Tenors[i-1], curve.Tenors[i])
		if err != nil {
			return GateResult{}, err
		}
		if decimal.Cmp(f, floor) < 0 {
			return GateResult{Gate: "AF-YC-04", Severity: High, Passed: false,
				Detail: fmt.Sprintf("forward(t_%d,t_%d) = %s below floor %s", i-1, i, decimal.String(f), decimal.String(floor))}, nil
		}
	}
	return GateResult{Gate: "AF-YC-04", Severity: High, Passed: true}, nil
}

// secondDifferenceGate approximates |f''| via discrete forward-rate
// second differences over consecutive tenor triples.
func secondDifferenceGate(ctx *decimal.Context, curve YieldCurve, bound *decimal.Decimal) (GateResult, error) {
	if len(curve.Tenors) < 3 {
		return GateResult{Gate: "AF-YC-05", Severity: Medium, Passed: true, Detail: "fewer than 3 tenors: no curvature to check"}, nil
	}
	for i := 1; i < len(curve.Tenors)-1; i++ {
		f0, err := curve.ForwardRate(ctx, curve.Tenors[i-1], curve.Tenors[i])
		if err != nil {
			return GateResult{}, err
		}
		f1, err := curve.ForwardRate(ctx, curve.Tenors[i], curve.Tenors[i+1])
		if err != nil {
			return GateResult{}, err
		}
		diff, err := ctx.Sub(f1, f0)
		if err != nil {
			return GateResult{}, err
		}
		absDiff, err := ctx.Abs(diff)
		if err != nil {
			return GateResult{}, err
		}
		if decimal.Cmp(absDiff, bound) >= 0 {
			return GateResult{Gate: "AF-YC-05", Severity: Medium, Passed: false,
				Detail: fmt.Sprintf("|f''| at tenor index %d = %s exceeds bound %s", i, decimal.String(absDiff), decimal.String(bound))}, nil
		}
	}
	return GateResult{Gate: "AF-YC-05", Severity: Medium, Passed: true}, nil
}

// Package fxgate implements the FX arbitrage-freedom gates: triangular
// consistency across a set of quoted cross rates (AF-FX-01) and covered
// interest parity between a forward rate and a discount-factor ratio
// (AF-FX-02).
package fxgate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/logging"
)

func logFailures(results []GateResult) {
	for _, r := range results {
		if !r.Passed {
			logging.L().Warn("gate failed", zap.String("gate", r.Gate), zap.Int("severity", int(r.Severity)), zap.String("detail", r.Detail))
		}
	}
}

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

// Rate is one quoted spot rate for base/quote, meaning 1 unit of Base
// is worth Value units of Quote.
type Rate struct {
	Base  string
	Quote string
	Value *decimal.Decimal
}

// Triangle is one (A/B, B/C, C/A) rate triple to check for triangular
// arbitrage: the product of the three legs, traversed A->B->C->A, must
// be within tol of 1.
type Triangle struct {
	AB, BC, CA Rate
}

// TriangularArbitrage evaluates AF-FX-01 over every supplied triple.
func TriangularArbitrage(ctx *decimal.Context, triangles []Triangle, tol *decimal.Decimal) ([]GateResult, error) {
	var results []GateResult
	for i, tr := range triangles {
		for _, leg := range []Rate{tr.AB, tr.BC, tr.CA} {
			if decimal.Sign(leg.Value) <= 0 {
				results = append(results, GateResult{Gate: "AF-FX-01", Severity: Critical, Passed: false,
					Detail: fmt.Sprintf("triangle %d: rate %s/%s = %s is not strictly positive", i, leg.Base, leg.Quote, decimal.String(leg.Value))})
				continue
			}
		}

		product, err := ctx.Mul(tr.AB.Value, tr.BC.Value)
		if err != nil {
			return nil, err
		}
		product, err = ctx.Mul(product, tr.CA.Value)
		if err != nil {
			return nil, err
		}
		diff, err := ctx.Sub(product, decimal.One())
		if err != nil {
			return nil, err
		}
		absDiff, err := ctx.Abs(diff)
		if err != nil {
			return nil, err
		}
		if decimal.Cmp(absDiff, tol) >= 0 {
			results = append(results, GateResult{Gate: "AF-FX-01", Severity: Critical, Passed: false,
				Detail: fmt.Sprintf("triangle %d (%s/%s, %s/%s, %s/%s): product %s deviates from 1 by %s >= tol %s",
					i, tr.AB.Base, tr.AB.Quote, tr.BC.Base, tr.BC.Quote, tr.CA.Base, tr.CA.Quote,
					decimal.String(product), decimal.String(absDiff), decimal.String(tol))})
			continue
		}
		results = append(results, GateResult{Gate: "AF-FX-01", Severity: Critical, Passed: true,
			Detail: fmt.Sprintf("triangle %d product %s within tol %s of 1", i, decimal.String(product), decimal.String(tol))})
	}
	logFailures(results)
	return results, nil
}

// ParityCheck is one covered-interest-parity input: spot S, forward F,
// and the domestic/foreign discount factors over the forward's tenor.
type ParityCheck struct {
	Pair            string
	Spot            *decimal.Decimal
	Forward         *decimal.Decimal
	DomesticDiscount *decimal.Decimal
	ForeignDiscount *decimal.Decimal
}

// CoveredInterestParity evaluates AF-FX-02: |F/S - D_dom/D_for| < tol,
// rejecting any non-positive rate or discount factor outright.
func CoveredInterestParity(ctx *decimal.Context, checks []ParityCheck, tol *decimal.Decimal) ([]GateResult, error) {
	var results []GateResult
	for _, c := range checks {
		if decimal.Sign(c.Spot) <= 0 || decimal.Sign(c.Forward) <= 0 ||
			decimal.Sign(c.DomesticDiscount) <= 0 || decimal.Sign(c.ForeignDiscount) <= 0 {
			results = append(results, GateResult{Gate: "AF-FX-02", Severity: High, Passed: false,
				Detail: fmt.Sprintf("%s: spot, forward, and discount factors must all be strictly positive", c.Pair)})
			continue
		}

		fOverS, err := ctx.Quo(c.Forward, c.Spot)
		if err != nil {
			return nil, err
		}
		dRatio, err := ctx.Quo(c.DomesticDiscount, c.ForeignDiscount)
		if err != nil {
			return nil, err
		}
		diff, err := ctx.Sub(fOverS, dRatio)
		if err != nil {
			return nil, err
		}
		absDiff, err := ctx.Abs(diff)
		if err != nil {
			return nil, err
		}
		if decimal.Cmp(absDiff, tol) >= 0 {
			results = append(results, GateResult{Gate: "AF-FX-02", Severity: High, Passed: false,
				Detail: fmt.Sprintf("%s: |F/S - D_dom/D_for| = %s >= tol %s", c.Pair, decimal.String(absDiff), decimal.String(tol))})
			continue
		}
		results = append(results, GateResult{Gate: "AF-FX-02", Severity: High, Passed: true,
			Detail: fmt.Sprintf("%s: parity holds within tol %s", c.Pair, decimal.String(tol))})
	}
	logFailures(results)
	return results, nil
}

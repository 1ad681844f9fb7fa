package yieldcurve

import (
	"github.com/withobsrvr/attestor/attestation"
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/result"
	"github.com/withobsrvr/attestor/types"
)

// CreateAttested bootstraps a curve and wraps it with DerivedConfidence,
// the fit-quality map carrying whatever summary statistics the caller
// has already computed about the bootstrap (e.g. max residual).
func CreateAttested(ctx *decimal.Context, quotes []Quote, asOf types.UTCDateTime, modelConfigRef, source string, fitQuality map[string]string) (attestation.Attestation[YieldCurve], error) {
	curve, err := Bootstrap(ctx, quotes, asOf, modelConfigRef)
	if err != nil {
		return attestation.Attestation[YieldCurve]{}, err
	}
	confidence, err := attestation.NewDerivedConfidence("yield_curve_bootstrap", modelConfigRef, fitQuality, nil, nil, nil)
	if err != nil {
		return attestation.Attestation[YieldCurve]{}, err
	}
	return attestation.CreateAttestation[YieldCurve](curve, confidence, source, asOf, nil)
}

// HandleCalibrationFailure implements the explicit, auditable fallback
// policy: when bootstrap fails, return the last known-good attestation
// if one exists, otherwise propagate an error. There is no automatic
// retry.
func HandleCalibrationFailure(reason string, lastGood *attestation.Attestation[YieldCurve], timestamp types.UTCDateTime) (attestation.Attestation[YieldCurve], error) {
	if lastGood != nil {
		return *lastGood, nil
	}
	return attestation.Attestation[YieldCurve]{}, result.NewPricingError("yield curve calibration failed and no last-good attestation is available: " + reason)
}

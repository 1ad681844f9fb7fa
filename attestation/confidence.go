package attestation

import (
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/identifiers"
	"github.com/withobsrvr/attestor/result"
	"github.com/withobsrvr/attestor/types"
)

// Confidence is the sum type describing how a value was obtained: a firm
// observation, a two-sided quote, or a model-derived estimate.
type Confidence interface {
	Canonical
	isConfidence()
}

// FirmConfidence attests that value was observed directly at source, with
// an optional reference to the attestation it was itself derived from.
type FirmConfidence struct {
	Source               string
	Timestamp             types.UTCDateTime
	UpstreamAttestationID string // empty when there is no upstream reference
}

func (FirmConfidence) isConfidence() {}

func (f FirmConfidence) CanonicalBytes() ([]byte, error) {
	w := NewWriter()
	w.WriteTag("firm")
	w.WriteString(f.Source)
	w.WriteDateTime(f.Timestamp)
	w.WriteString(f.UpstreamAttestationID)
	return w.Bytes(), nil
}

// NewFirmConfidence validates source is non-empty.
func NewFirmConfidence(source string, ts types.UTCDateTime, upstreamAttestationID string) (FirmConfidence, error) {
	if source == "" {
		return FirmConfidence{}, result.NewValidationError(result.FieldViolation{
			Path: "source", Constraint: "must be non-empty", Actual: source,
		})
	}
	return FirmConfidence{Source: source, Timestamp: ts, UpstreamAttestationID: upstreamAttestationID}, nil
}

// QuotedConfidence attests that value came from a two-sided market quote.
type QuotedConfidence struct {
	Bid            *decimal.Decimal
	Ask            *decimal.Decimal
	Venue          string
	Size           *decimal.Decimal // nil when no size was quoted
	QuoteCondition string
}

func (QuotedConfidence) isConfidence() {}

// NewQuotedConfidence enforces bid <= ask and validates the venue MIC.
func NewQuotedConfidence(bid, ask *decimal.Decimal, venue string, size *decimal.Decimal, quoteCondition string) (QuotedConfidence, error) {
	ve := result.NewValidationError()
	if !decimal.IsFinite(bid) {
		ve.Field("bid", "must be finite", decimal.String(bid))
	}
	if !decimal.IsFinite(ask) {
		ve.Field("ask", "must be finite", decimal.String(ask))
	}
	if decimal.IsFinite(bid) && decimal.IsFinite(ask) && decimal.Cmp(bid, ask) > 0 {
		ve.Field("bid", "must be <= ask", decimal.String(bid))
	}
	if !identifiers.ValidateMIC(venue) {
		ve.Field("venue", "must be a valid MIC", venue)
	}
	if ve.HasViolations() {
		return QuotedConfidence{}, ve
	}
	return QuotedConfidence{Bid: bid, Ask: ask, Venue: venue, Size: size, QuoteCondition: quoteCondition}, nil
}

func (q QuotedConfidence) CanonicalBytes() ([]byte, error) {
	w := NewWriter()
	w.WriteTag("quoted")
	w.WriteDecimal(decimal.String(q.Bid))
	w.WriteDecimal(decimal.String(q.Ask))
	w.WriteString(q.Venue)
	if q.Size != nil {
		w.WriteBool(true)
		w.WriteDecimal(decimal.String(q.Size))
	} else {
		w.WriteBool(false)
	}
	w.WriteString(q.QuoteCondition)
	return w.Bytes(), nil
}

// Mid returns (bid+ask)/2 under context c.
func (q QuotedConfidence) Mid(c *decimal.Context) (*decimal.Decimal, error) {
	sum, err := c.Add(q.Bid, q.Ask)
	if err != nil {
		return nil, err
	}
	return c.Quo(sum, decimal.Two())
}

// Spread returns ask-bid under context c.
func (q QuotedConfidence) Spread(c *decimal.Context) (*decimal.Decimal, error) {
	return c.Sub(q.Ask, q.Bid)
}

// HalfSpread returns (ask-bid)/2 under context c.
func (q QuotedConfidence) HalfSpread(c *decimal.Context) (*decimal.Decimal, error) {
	spread, err := q.Spread(c)
	if err != nil {
		return nil, err
	}
	return c.Quo(spread, decimal.Two())
}

// DerivedConfidence attests that value was produced by a calibration or
// pricing model.
type DerivedConfidence struct {
	Method       string
	ConfigRef    string
	FitQuality   map[string]string // rendered decimal strings, non-empty
	HasInterval  bool
	IntervalLow  *decimal.Decimal
	IntervalHigh *decimal.Decimal
	Level        *decimal.Decimal // non-nil iff HasInterval
}

func (DerivedConfidence) isConfidence() {}

// NewDerivedConfidence enforces a non-empty fit_quality map and that
// interval and level are present together or not at all, with level in
// the open interval (0,1).
func NewDerivedConfidence(method, configRef string, fitQuality map[string]string, intervalLow, intervalHigh, level *decimal.Decimal) (DerivedConfidence, error) {
	ve := result.NewValidationError()
	if method == "" {
		ve.Field("method", "must be non-empty", method)
	}
	if len(fitQuality) == 0 {
		ve.Field("fit_quality", "must be non-empty", "{}")
	}
	hasInterval := intervalLow != nil || intervalHigh != nil || level != nil
	if hasInterval {
		if intervalLow == nil || intervalHigh == nil || level == nil {
			ve.Field("interval", "interval bounds and level must be present together or not at all", "partial")
		} else {
			zero := decimal.Zero()
			one := decimal.One()
			if decimal.Cmp(level, zero) <= 0 || decimal.Cmp(level, one) >= 0 {
				ve.Field("level", "must be in the open interval (0,1)", decimal.String(level))
			}
		}
	}
	if ve.HasViolations() {
		return DerivedConfidence{}, ve
	}
	return DerivedConfidence{
		Method: method, ConfigRef: configRef, FitQuality: fitQuality,
		HasInterval: hasInterval, IntervalLow: intervalLow, IntervalHigh: intervalHigh, Level: level,
	}, nil
}

func (d DerivedConfidence) CanonicalBytes() ([]byte, error) {
	w := NewWriter()
	w.WriteTag("derived")
	w.WriteString(d.Method)
	w.WriteString(d.ConfigRef)
	w.WriteStringMap(d.FitQuality)
	w.WriteBool(d.HasInterval)
	if d.HasInterval {
		w.WriteDecimal(decimal.String(d.IntervalLow))
		w.WriteDecimal(decimal.String(d.IntervalHigh))
		w.WriteDecimal(decimal.String(d.Level))
	}
	return w.Bytes(), nil
}

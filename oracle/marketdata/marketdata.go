// Package marketdata wraps raw market observations — exchange fills,
// two-sided quotes, FX rates, and official rate fixings — into
// Attestation[T] values carrying the confidence type appropriate to how
// the value was obtained: a fill or a central-bank fixing is Firm, a
// two-sided quote is Quoted.
package marketdata

import (
	"github.com/withobsrvr/attestor/attestation"
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/result"
	"github.com/withobsrvr/attestor/types"
)

// EquityPoint is a single equity price observation.
type EquityPoint struct {
	InstrumentID string
	Price        *decimal.Decimal
	Currency     string
	Timestamp    types.UTCDateTime
}

func (p EquityPoint) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteTag("equity_point")
	w.WriteString(p.InstrumentID)
	w.WriteDecimal(decimal.String(p.Price))
	w.WriteString(p.Currency)
	w.WriteDateTime(p.Timestamp)
	return w.Bytes(), nil
}

// IngestEquityFill wraps an exchange fill as a Firm attestation.
func IngestEquityFill(instrumentID string, price *decimal.Decimal, currency, exchange string, ts types.UTCDateTime, exchangeRef string) (attestation.Attestation[EquityPoint], error) {
	ve := result.NewValidationError()
	if instrumentID == "" {
		ve.Field("instrument_id", "must be non-empty", instrumentID)
	}
	if !decimal.IsFinite(price) || decimal.Sign(price) <= 0 {
		ve.Field("price", "must be positive finite", decimal.String(price))
	}
	if currency == "" {
		ve.Field("currency", "must be non-empty", currency)
	}
	if ve.HasViolations() {
		return attestation.Attestation[EquityPoint]{}, ve
	}

	confidence, err := attestation.NewFirmConfidence(exchange, ts, exchangeRef)
	if err != nil {
		return attestation.Attestation[EquityPoint]{}, err
	}
	point := EquityPoint{InstrumentID: instrumentID, Price: price, Currency: currency, Timestamp: ts}
	return attestation.CreateAttestation[EquityPoint](point, confidence, exchange, ts, nil)
}

// IngestEquityQuote wraps a two-sided market quote as a Quoted
// attestation, using the quote's mid price as the observed point.
func IngestEquityQuote(ctx *decimal.Context, instrumentID string, bid, ask *decimal.Decimal, currency, venue string, ts types.UTCDateTime) (attestation.Attestation[EquityPoint], error) {
	if instrumentID == "" {
		return attestation.Attestation[EquityPoint]{}, result.NewValidationError(result.FieldViolation{
			Path: "instrument_id", Constraint: "must be non-empty", Actual: instrumentID,
		})
	}
	if currency == "" {
		return attestation.Attestation[EquityPoint]{}, result.NewValidationError(result.FieldViolation{
			Path: "currency", Constraint: "must be non-empty", Actual: currency,
		})
	}

	confidence, err := attestation.NewQuotedConfidence(bid, ask, venue, nil, "")
	if err != nil {
		return attestation.Attestation[EquityPoint]{}, err
	}
	mid, err := confidence.Mid(ctx)
	if err != nil {
		return attestation.Attestation[EquityPoint]{}, err
	}
	point := EquityPoint{InstrumentID: instrumentID, Price: mid, Currency: currency, Timestamp: ts}
	return attestation.CreateAttestation[EquityPoint](point, confidence, venue, ts, nil)
}

// FXRate is an observed FX rate for a currency pair.
type FXRate struct {
	BaseCurrency  string
	QuoteCurrency string
	Rate          *decimal.Decimal
	Timestamp     types.UTCDateTime
}

func (r FXRate) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteTag("fx_rate")
	w.WriteString(r.BaseCurrency)
	w.WriteString(r.QuoteCurrency)
	w.WriteDecimal(decimal.String(r.Rate))
	w.WriteDateTime(r.Timestamp)
	return w.Bytes(), nil
}

func validateCurrencyPair(base, quote string) error {
	ve := result.NewValidationError()
	if base == "" {
		ve.Field("base_currency", "must be non-empty", base)
	}
	if quote == "" {
		ve.Field("quote_currency", "must be non-empty", quote)
	}
	if base != "" && base == quote {
		ve.Field("quote_currency", "must differ from base_currency", quote)
	}
	if ve.HasViolations() {
		return ve
	}
	return nil
}

// IngestFXRate wraps a two-sided FX quote as a Quoted attestation over
// the quote's mid rate.
func IngestFXRate(ctx *decimal.Context, base, quote string, bid, ask *decimal.Decimal, venue string, ts types.UTCDateTime) (attestation.Attestation[FXRate], error) {
	if err := validateCurrencyPair(base, quote); err != nil {
		return attestation.Attestation[FXRate]{}, err
	}
	confidence, err := attestation.NewQuotedConfidence(bid, ask, venue, nil, "")
	if err != nil {
		return attestation.Attestation[FXRate]{}, err
	}
	mid, err := confidence.Mid(ctx)
	if err != nil {
		return attestation.Attestation[FXRate]{}, err
	}
	if decimal.Sign(mid) <= 0 {
		return attestation.Attestation[FXRate]{}, result.NewValidationError(result.FieldViolation{
			Path: "mid", Constraint: "must be positive", Actual: decimal.String(mid),
		})
	}
	rate := FXRate{BaseCurrency: base, QuoteCurrency: quote, Rate: mid, Timestamp: ts}
	return attestation.CreateAttestation[FXRate](rate, confidence, venue, ts, nil)
}

// IngestFXRateFirm wraps a firm FX rate (e.g. an ECB reference fixing)
// as a Firm attestation.
func IngestFXRateFirm(base, quote string, rate *decimal.Decimal, source string, ts types.UTCDateTime, attestationRef string) (attestation.Attestation[FXRate], error) {
	if err := validateCurrencyPair(base, quote); err != nil {
		return attestation.Attestation[FXRate]{}, err
	}
	if !decimal.IsFinite(rate) || decimal.Sign(rate) <= 0 {
		return attestation.Attestation[FXRate]{}, result.NewValidationError(result.FieldViolation{
			Path: "rate", Constraint: "must be positive finite", Actual: decimal.String(rate),
		})
	}
	confidence, err := attestation.NewFirmConfidence(source, ts, attestationRef)
	if err != nil {
		return attestation.Attestation[FXRate]{}, err
	}
	fxRate := FXRate{BaseCurrency: base, QuoteCurrency: quote, Rate: rate, Timestamp: ts}
	return attestation.CreateAttestation[FXRate](fxRate, confidence, source, ts, nil)
}

// RateFixing is an official published rate fixing (SOFR, EURIBOR, and
// the like). Rate may be negative — several jurisdictions have published
// negative policy rates and this is not a validation failure.
type RateFixing struct {
	IndexName  string
	Rate       *decimal.Decimal
	FixingDate types.UTCDateTime
	Source     string
	Timestamp  types.UTCDateTime
}

func (f RateFixing) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteTag("rate_fixing")
	w.WriteString(f.IndexName)
	w.WriteDecimal(decimal.String(f.Rate))
	w.WriteDateTime(f.FixingDate)
	w.WriteString(f.Source)
	w.WriteDateTime(f.Timestamp)
	return w.Bytes(), nil
}

// IngestRateFixing wraps an official rate fixing as a Firm attestation.
func IngestRateFixing(indexName string, rate *decimal.Decimal, fixingDate types.UTCDateTime, source string, ts types.UTCDateTime, attestationRef string) (attestation.Attestation[RateFixing], error) {
	ve := result.NewValidationError()
	if indexName == "" {
		ve.Field("index_name", "must be non-empty", indexName)
	}
	if !decimal.IsFinite(rate) {
		ve.Field("rate", "must be finite", decimal.String(rate))
	}
	if source == "" {
		ve.Field("source", "must be non-empty", source)
	}
	if ve.HasViolations() {
		return attestation.Attestation[RateFixing]{}, ve
	}

	confidence, err := attestation.NewFirmConfidence(source, ts, attestationRef)
	if err != nil {
		return attestation.Attestation[RateFixing]{}, err
	}
	fixing := RateFixing{IndexName: indexName, Rate: rate, FixingDate: fixingDate, Source: source, Timestamp: ts}
	return attestation.CreateAttestation[RateFixing](fixing, confidence, source, ts, nil)
}

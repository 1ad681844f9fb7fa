// Package instrument implements the sum type of instrument details and
// the validated CanonicalOrder that gateway validation produces.
package instrument

import (
	"github.com/withobsrvr/attestor/attestation"
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/result"
	"github.com/withobsrvr/attestor/types"
)

// Detail is the sum type of instrument-specific order data. Every
// variant must be able to serialize canonically (for attestation) and
// report whether the instrument is a derivative requiring expiry
// validation against the order's trade date.
type Detail interface {
	attestation.Canonical
	isDetail()
	Expiry() (types.UTCDateTime, bool) // ok=false for non-derivatives
}

// EquityDetail carries the data specific to a cash equity trade.
type EquityDetail struct {
	ISIN string
}

func (EquityDetail) isDetail() {}
func (EquityDetail) Expiry() (types.UTCDateTime, bool) { return types.UTCDateTime{}, false }
func (e EquityDetail) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteTag("equity")
	w.WriteString(e.ISIN)
	return w.Bytes(), nil
}

// OptionStyle distinguishes physical and cash-settled exercise.
type OptionStyle int

const (
	OptionPhysical OptionStyle = iota
	OptionCash
)

// OptionRight distinguishes calls and puts.
type OptionRight int

const (
	Call OptionRight = iota
	Put
)

type OptionDetail struct {
	Underlying string
	Strike     *decimal.Decimal
	Right      OptionRight
	Style      OptionStyle
	Multiplier *decimal.Decimal
	ExpiryDate types.UTCDateTime
}

func (OptionDetail) isDetail() {}
func (o OptionDetail) Expiry() (types.UTCDateTime, bool) { return o.ExpiryDate, true }
func (o OptionDetail) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteTag("option")
	w.WriteString(o.Underlying)
	w.WriteDecimal(decimal.String(o.Strike))
	w.WriteInt64(int64(o.Right))
	w.WriteInt64(int64(o.Style))
	w.WriteDecimal(decimal.String(o.Multiplier))
	w.WriteDateTime(o.ExpiryDate)
	return w.Bytes(), nil
}

type FuturesDetail struct {
	ContractCode string
	ContractSize *decimal.Decimal
	ExpiryDate   types.UTCDateTime
}

func (FuturesDetail) isDetail() {}
func (f FuturesDetail) Expiry() (types.UTCDateTime, bool) { return f.ExpiryDate, true }
func (f FuturesDetail) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteTag("futures")
	w.WriteString(f.ContractCode)
	w.WriteDecimal(decimal.String(f.ContractSize))
	w.WriteDateTime(f.ExpiryDate)
	return w.Bytes(), nil
}

// FXSubType distinguishes spot, outright forward, and non-deliverable
// forward FX transactions.
type FXSubType int

const (
	FXSpot FXSubType = iota
	FXForward
	FXNDF
)

type FXDetail struct {
	BaseCurrency  string
	QuoteCurrency string
	SubType       FXSubType
	ValueDate     types.UTCDateTime
}

func (FXDetail) isDetail() {}
func (FXDetail) Expiry() (types.UTCDateTime, bool) { return types.UTCDateTime{}, false }
func (f FXDetail) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteTag("fx")
	w.WriteString(f.BaseCurrency)
	w.WriteString(f.QuoteCurrency)
	w.WriteInt64(int64(f.SubType))
	w.WriteDateTime(f.ValueDate)
	return w.Bytes(), nil
}

type IRSwapDetail struct {
	FixedRate      *decimal.Decimal
	FloatIndex     string
	FixedLegCcy    string
	FloatLegCcy    string
	EffectiveDate  types.UTCDateTime
	MaturityDate   types.UTCDateTime
}

func (IRSwapDetail) isDetail() {}
func (s IRSwapDetail) Expiry() (types.UTCDateTime, bool) { return s.MaturityDate, true }
func (s IRSwapDetail) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteTag("irs")
	w.WriteDecimal(decimal.String(s.FixedRate))
	w.WriteString(s.FloatIndex)
	w.WriteString(s.FixedLegCcy)
	w.WriteString(s.FloatLegCcy)
	w.WriteDateTime(s.EffectiveDate)
	w.WriteDateTime(s.MaturityDate)
	return w.Bytes(), nil
}

type CDSDetail struct {
	ReferenceEntity string
	Notional        *decimal.Decimal
	SpreadBps       *decimal.Decimal
	Currency        string
	MaturityDate    types.UTCDateTime
}

func (CDSDetail) isDetail() {}
func (c CDSDetail) Expiry() (types.UTCDateTime, bool) { return c.MaturityDate, true }
func (c CDSDetail) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteTag("cds")
	w.WriteString(c.ReferenceEntity)
	w.WriteDecimal(decimal.String(c.Notional))
	w.WriteDecimal(decimal.String(c.SpreadBps))
	w.WriteString(c.Currency)
	w.WriteDateTime(c.MaturityDate)
	return w.Bytes(), nil
}

type SwaptionDetail struct {
	UnderlyingSwapRef string
	StrikeRate        *decimal.Decimal
	SettlementStyle    OptionStyle
	ExpiryDate         types.UTCDateTime
}

func (SwaptionDetail) isDetail() {}
func (s SwaptionDetail) Expiry() (types.UTCDateTime, bool) { return s.ExpiryDate, true }
func (s SwaptionDetail) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteTag("swaption")
	w.WriteString(s.UnderlyingSwapRef)
	w.WriteDecimal(decimal.String(s.StrikeRate))
	w.WriteInt64(int64(s.SettlementStyle))
	w.WriteDateTime(s.ExpiryDate)
	return w.Bytes(), nil
}

// validateExpiryAfterTrade enforces that derivative variants expire
// after the order's trade date (spec §3 "Canonical order").
func validateExpiryAfterTrade(d Detail, tradeDate types.UTCDateTime) error {
	expiry, ok := d.Expiry()
	if !ok {
		return nil
	}
	if !expiry.After(tradeDate) {
		return result.NewValidationError(result.FieldViolation{
			Path: "instrument_detail.expiry", Constraint: "must be after trade_date", Actual: expiry.ISO8601(),
		})
	}
	return nil
}

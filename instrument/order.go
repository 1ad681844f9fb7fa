package instrument

import (
	"github.com/withobsrvr/attestor/attestation"
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/identifiers"
	"github.com/withobsrvr/attestor/result"
	"github.com/withobsrvr/attestor/types"
)

// OrderSide is BUY or SELL.
type OrderSide int

const (
	Buy OrderSide = iota
	Sell
)

func (s OrderSide) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// CanonicalOrder is the validated trade intent gateway validation
// produces: every field has already passed its own invariant by the
// time a CanonicalOrder exists.
type CanonicalOrder struct {
	OrderID            types.NonEmptyStr
	Side               OrderSide
	Quantity           types.PositiveDecimal
	Price              *decimal.Decimal
	Currency           types.NonEmptyStr
	CounterpartyLEI    types.NonEmptyStr
	ExecutingLEI       types.NonEmptyStr
	TradeDate          types.UTCDateTime
	SettlementDate     types.UTCDateTime
	Venue              types.NonEmptyStr
	Timestamp          types.UTCDateTime
	InstrumentDetail   Detail
}

// NewCanonicalOrder validates every field, aggregating all violations
// before returning (spec §7: "collects all field violations before
// returning a single Err").
func NewCanonicalOrder(
	orderID string,
	side OrderSide,
	quantity *decimal.Decimal,
	price *decimal.Decimal,
	currency string,
	counterpartyLEI string,
	executingLEI string,
	tradeDate types.UTCDateTime,
	settlementDate types.UTCDateTime,
	venue string,
	timestamp types.UTCDateTime,
	detail Detail,
) (CanonicalOrder, error) {
	ve := result.NewValidationError()

	oid, err := types.NewNonEmptyStr(orderID)
	if err != nil {
		ve.Field("order_id", "must be non-empty", orderID)
	}
	qty, err := types.NewPositiveDecimal(quantity)
	if err != nil {
		ve.Field("quantity", "must be positive", decimal.String(quantity))
	}
	if !decimal.IsFinite(price) {
		ve.Field("price", "must be finite", decimal.String(price))
	}
	cur, err := types.NewNonEmptyStr(currency)
	if err != nil {
		ve.Field("currency", "must be non-empty", currency)
	} else if !identifiers.IsKnownCurrency(currency) {
		ve.Field("currency", "must be a known ISO-4217 currency", currency)
	}
	cpLEI, err := types.NewNonEmptyStr(counterpartyLEI)
	if err != nil || !identifiers.ValidateLEI(counterpartyLEI) {
		ve.Field("counterparty_lei", "must be a valid LEI", counterpartyLEI)
	}
	exLEI, err := types.NewNonEmptyStr(executingLEI)
	if err != nil || !identifiers.ValidateLEI(executingLEI) {
		ve.Field("executing_lei", "must be a valid LEI", executingLEI)
	}
	if settlementDate.Before(tradeDate) {
		ve.Field("settlement_date", "must be >= trade_date", settlementDate.ISO8601())
	}
	ven, err := types.NewNonEmptyStr(venue)
	if err != nil || !identifiers.ValidateMIC(venue) {
		ve.Field("venue", "must be a valid MIC", venue)
	}
	if detail == nil {
		ve.Field("instrument_detail", "must be present", "nil")
	} else if expErr := validateExpiryAfterTrade(detail, tradeDate); expErr != nil {
		if verr, ok := expErr.(*result.ValidationError); ok {
			ve.Violations = append(ve.Violations, verr.Violations...)
		}
	}

	if ve.HasViolations() {
		return CanonicalOrder{}, ve
	}

	return CanonicalOrder{
		OrderID: oid, Side: side, Quantity: qty, Price: price, Currency: cur,
		CounterpartyLEI: cpLEI, ExecutingLEI: exLEI, TradeDate: tradeDate,
		SettlementDate: settlementDate, Venue: ven, Timestamp: timestamp,
		InstrumentDetail: detail,
	}, nil
}

func (o CanonicalOrder) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteString(o.OrderID.String())
	w.WriteInt64(int64(o.Side))
	w.WriteDecimal(decimal.String(o.Quantity.Value()))
	w.WriteDecimal(decimal.String(o.Price))
	w.WriteString(o.Currency.String())
	w.WriteString(o.CounterpartyLEI.String())
	w.WriteString(o.ExecutingLEI.String())
	w.WriteDateTime(o.TradeDate)
	w.WriteDateTime(o.SettlementDate)
	w.WriteString(o.Venue.String())
	w.WriteDateTime(o.Timestamp)
	detailBytes, err := o.InstrumentDetail.CanonicalBytes()
	if err != nil {
		return nil, err
	}
	w.WriteBytes(detailBytes)
	return w.Bytes(), nil
}

// Package reporting names the type a regulatory report projection would
// be built from. Report generation itself is explicitly out of scope
// (spec §1: "regulatory report projections... pure functions of an
// order... stubbed"); this package exists only so lifecycle and ledger
// code that needs to reference "the reportable view of an order" has a
// concrete, minimal type to point at.
package reporting

import (
	"github.com/withobsrvr/attestor/instrument"
)

// ReportableFields is the narrow, deterministic projection of a
// CanonicalOrder a future regulatory-report generator would consume.
// It carries only identifying and economic fields already present on
// the order; no aggregation, enrichment, or jurisdiction-specific
// formatting happens here.
type ReportableFields struct {
	OrderID         string
	Side            string
	Quantity        string
	Currency        string
	CounterpartyLEI string
	ExecutingLEI    string
	TradeDate       string
	SettlementDate  string
	Venue           string
}

// ReportableFieldsOf projects order's identifying and economic fields.
// It performs no validation of its own — order is assumed already valid
// by construction (instrument.NewCanonicalOrder never returns an
// invalid CanonicalOrder).
func ReportableFieldsOf(order instrument.CanonicalOrder) ReportableFields {
	return ReportableFields{
		OrderID:         order.OrderID.String(),
		Side:            order.Side.String(),
		Quantity:        order.Quantity.Value().String(),
		Currency:        order.Currency.String(),
		CounterpartyLEI: order.CounterpartyLEI.String(),
		ExecutingLEI:    order.ExecutingLEI.String(),
		TradeDate:       order.TradeDate.ISO8601(),
		SettlementDate:  order.SettlementDate.ISO8601(),
		Venue:           order.Venue.String(),
	}
}

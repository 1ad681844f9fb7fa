package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/instrument"
	"github.com/withobsrvr/attestor/types"
)

func mustTS(t *testing.T, s string) types.UTCDateTime {
	t.Helper()
	dt, err := types.ParseUTCDateTime(s)
	require.NoError(t, err)
	return dt
}

func TestReportableFieldsOfProjectsEconomicFields(t *testing.T) {
	trade := mustTS(t, "2025-06-15T10:00:00Z")
	settle := mustTS(t, "2025-06-17T10:00:00Z")
	order, err := instrument.NewCanonicalOrder(
		"ORD-1", instrument.Buy, decimal.MustParse("100"), decimal.MustParse("150.25"),
		"USD", "529900HNOAA1KXQJUQ27", "529900ODI3JL1O4COU11",
		trade, settle, "XNYS", trade, instrument.EquityDetail{ISIN: "US0378331005"},
	)
	require.NoError(t, err)

	rf := ReportableFieldsOf(order)
	assert.Equal(t, "ORD-1", rf.OrderID)
	assert.Equal(t, "BUY", rf.Side)
	assert.Equal(t, "USD", rf.Currency)
	assert.Equal(t, "529900HNOAA1KXQJUQ27", rf.CounterpartyLEI)
	assert.Equal(t, "529900ODI3JL1O4COU11", rf.ExecutingLEI)
	assert.Equal(t, "XNYS", rf.Venue)
	assert.Equal(t, "100", rf.Quantity)
}

package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/types"
)

func mustTS(t *testing.T, s string) types.UTCDateTime {
	t.Helper()
	dt, err := types.ParseUTCDateTime(s)
	require.NoError(t, err)
	return dt
}

func validEquityArgs(t *testing.T) (string, OrderSide, *decimal.Decimal, *decimal.Decimal, string, string, string, types.UTCDateTime, types.UTCDateTime, string, types.UTCDateTime, Detail) {
	return "ORD-1", Buy, decimal.MustParse("100"), decimal.MustParse("150.25"), "USD",
		"529900HNOAA1KXQJUQ27", "529900ODI3JL1O4COU11",
		mustTS(t, "2025-06-15T10:00:00Z"), mustTS(t, "2025-06-17T10:00:00Z"),
		"XNYS", mustTS(t, "2025-06-15T10:00:00Z"), EquityDetail{ISIN: "US0378331005"}
}

func TestNewCanonicalOrderAcceptsValidEquityOrder(t *testing.T) {
	orderID, side, qty, price, ccy, cpLEI, exLEI, trade, settle, venue, ts, detail := validEquityArgs(t)
	order, err := NewCanonicalOrder(orderID, side, qty, price, ccy, cpLEI, exLEI, trade, settle, venue, ts, detail)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", order.OrderID.String())
}

func TestNewCanonicalOrderRejectsSettlementBeforeTrade(t *testing.T) {
	orderID, side, qty, price, ccy, cpLEI, exLEI, trade, _, venue, ts, detail := validEquityArgs(t)
	badSettle := mustTS(t, "2025-06-10T10:00:00Z")
	_, err := NewCanonicalOrder(orderID, side, qty, price, ccy, cpLEI, exLEI, trade, badSettle, venue, ts, detail)
	assert.Error(t, err)
}

func TestNewCanonicalOrderRejectsInvalidLEI(t *testing.T) {
	orderID, side, qty, price, ccy, _, exLEI, trade, settle, venue, ts, detail := validEquityArgs(t)
	_, err := NewCanonicalOrder(orderID, side, qty, price, ccy, "529900HNOAA1KXQJUQ2*", exLEI, trade, settle, venue, ts, detail)
	assert.Error(t, err)
}

func TestNewCanonicalOrderRejectsUnknownCurrency(t *testing.T) {
	orderID, side, qty, price, _, cpLEI, exLEI, trade, settle, venue, ts, detail := validEquityArgs(t)
	_, err := NewCanonicalOrder(orderID, side, qty, price, "ZZZ", cpLEI, exLEI, trade, settle, venue, ts, detail)
	assert.Error(t, err)
}

func TestNewCanonicalOrderRejectsOptionExpiryBeforeTradeDate(t *testing.T) {
	orderID, side, qty, price, ccy, cpLEI, exLEI, trade, settle, venue, ts, _ := validEquityArgs(t)
	opt := OptionDetail{
		Underlying: "AAPL", Strike: decimal.MustParse("150"), Right: Call, Style: OptionCash,
		Multiplier: decimal.MustParse("100"),
		ExpiryDate: mustTS(t, "2025-06-01T00:00:00Z"), // before trade date
	}
	_, err := NewCanonicalOrder(orderID, side, qty, price, ccy, cpLEI, exLEI, trade, settle, venue, ts, opt)
	assert.Error(t, err)
}

func TestNewCanonicalOrderAcceptsOptionExpiryAfterTradeDate(t *testing.T) {
	orderID, side, qty, price, ccy, cpLEI, exLEI, trade, settle, venue, ts, _ := validEquityArgs(t)
	opt := OptionDetail{
		Underlying: "AAPL", Strike: decimal.MustParse("150"), Right: Call, Style: OptionCash,
		Multiplier: decimal.MustParse("100"),
		ExpiryDate: mustTS(t, "2025-12-19T00:00:00Z"),
	}
	_, err := NewCanonicalOrder(orderID, side, qty, price, ccy, cpLEI, exLEI, trade, settle, venue, ts, opt)
	assert.NoError(t, err)
}

func TestCanonicalOrderBytesDeterministic(t *testing.T) {
	orderID, side, qty, price, ccy, cpLEI, exLEI, trade, settle, venue, ts, detail := validEquityArgs(t)
	o1, err := NewCanonicalOrder(orderID, side, qty, price, ccy, cpLEI, exLEI, trade, settle, venue, ts, detail)
	require.NoError(t, err)
	o2, err := NewCanonicalOrder(orderID, side, qty, price, ccy, cpLEI, exLEI, trade, settle, venue, ts, detail)
	require.NoError(t, err)

	b1, err := o1.CanonicalBytes()
	require.NoError(t, err)
	b2, err := o2.CanonicalBytes()
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

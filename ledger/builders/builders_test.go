package builders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/types"
)

func mustTS(t *testing.T) types.UTCDateTime {
	t.Helper()
	dt, err := types.ParseUTCDateTime("2025-06-15T10:00:00Z")
	require.NoError(t, err)
	return dt
}

func TestEquitySettlementProducesTwoConservingMoves(t *testing.T) {
	ctx := decimal.NewContext(28)
	tx, err := EquitySettlement(ctx, "tx-1", "buyer-cash", "seller-cash", "buyer-sec", "seller-sec", "AAPL", "USD",
		decimal.MustParse("100"), decimal.MustParse("150.00"), mustTS(t))
	require.NoError(t, err)
	require.Len(t, tx.Moves, 2)
	assert.Equal(t, 0, decimal.Cmp(tx.Moves[1].Quantity.Value(), decimal.MustParse("15000")))
}

func TestOptionPremiumComputesPriceTimesQuantityTimesMultiplier(t *testing.T) {
	ctx := decimal.NewContext(28)
	tx, err := OptionPremium(ctx, "tx-1", "buyer-cash", "seller-cash", "buyer-opt", "seller-opt", "AAPL_C150", "USD",
		decimal.MustParse("5.00"), decimal.MustParse("10"), decimal.MustParse("100"), mustTS(t))
	require.NoError(t, err)
	require.Len(t, tx.Moves, 2)
	assert.Equal(t, 0, decimal.Cmp(tx.Moves[0].Quantity.Value(), decimal.MustParse("5000")))
}

func TestOptionCashSettlementRejectsOTMExercise(t *testing.T) {
	ctx := decimal.NewContext(28)
	_, err := OptionCashSettlement(ctx, "tx-1", "payer", "receiver", "buyer-opt", "closed", "USD", "AAPL_C150",
		decimal.MustParse("140"), decimal.MustParse("150"), decimal.MustParse("10"), decimal.MustParse("100"), true, mustTS(t))
	assert.Error(t, err)
}

func TestOptionCashSettlementPaysCallIntrinsic(t *testing.T) {
	ctx := decimal.NewContext(28)
	tx, err := OptionCashSettlement(ctx, "tx-1", "payer", "receiver", "buyer-opt", "closed", "USD", "AAPL_C150",
		decimal.MustParse("160"), decimal.MustParse("150"), decimal.MustParse("10"), decimal.MustParse("100"), true, mustTS(t))
	require.NoError(t, err)
	// (160-150)*10*100 = 10000
	assert.Equal(t, 0, decimal.Cmp(tx.Moves[0].Quantity.Value(), decimal.MustParse("10000")))
}

func TestVariationMarginRejectsZeroFlow(t *testing.T) {
	ctx := decimal.NewContext(28)
	_, err := VariationMargin(ctx, "tx-1", "long-margin", "short-margin", "USD",
		decimal.MustParse("100.00"), decimal.MustParse("100.00"), decimal.MustParse("50"), decimal.MustParse("1"), mustTS(t))
	assert.Error(t, err)
}

func TestVariationMarginFlowsShortToLongOnPositiveDelta(t *testing.T) {
	ctx := decimal.NewContext(28)
	tx, err := VariationMargin(ctx, "tx-1", "long-margin", "short-margin", "USD",
		decimal.MustParse("101.00"), decimal.MustParse("100.00"), decimal.MustParse("50"), decimal.MustParse("1"), mustTS(t))
	require.NoError(t, err)
	require.Len(t, tx.Moves, 1)
	assert.Equal(t, "short-margin", tx.Moves[0].Source.String())
	assert.Equal(t, "long-margin", tx.Moves[0].Destination.String())
}

func TestCDSCreditEventRejectsAuctionPriceOutOfRange(t *testing.T) {
	ctx := decimal.NewContext(28)
	_, err := CDSCreditEvent(ctx, "tx-1", "seller-cash", "buyer-cash", "cds-pos", "cds-closed", "USD", "CDS-A",
		decimal.MustParse("1000000"), decimal.MustParse("1.0"), decimal.MustParse("1"), nil, "", "", mustTS(t))
	assert.Error(t, err)
}

func TestCDSCreditEventPaysNotionalTimesOneMinusAuction(t *testing.T) {
	ctx := decimal.NewContext(28)
	tx, err := CDSCreditEvent(ctx, "tx-1", "seller-cash", "buyer-cash", "cds-pos", "cds-closed", "USD", "CDS-A",
		decimal.MustParse("1000000"), decimal.MustParse("0.4"), decimal.MustParse("1"), nil, "", "", mustTS(t))
	require.NoError(t, err)
	require.Len(t, tx.Moves, 2)
	assert.Equal(t, 0, decimal.Cmp(tx.Moves[0].Quantity.Value(), decimal.MustParse("600000")))
}

func TestCollateralSubstitutionProducesTwoMoves(t *testing.T) {
	ctx := decimal.NewContext(28)
	tx, err := CollateralSubstitution(ctx, "tx-1", "poster", "holder", "UST_10Y", decimal.MustParse("100"), "CASH_USD", decimal.MustParse("102"), mustTS(t))
	require.NoError(t, err)
	require.Len(t, tx.Moves, 2)
}

func TestFXSpotSettlementComputesQuoteFromRate(t *testing.T) {
	ctx := decimal.NewContext(28)
	tx, err := FXSpotSettlement(ctx, "tx-1", "buyer-eur", "seller-eur", "buyer-usd", "seller-usd", "EUR", "USD",
		decimal.MustParse("1000000"), decimal.MustParse("1.10"), mustTS(t))
	require.NoError(t, err)
	assert.Equal(t, 0, decimal.Cmp(tx.Moves[1].Quantity.Value(), decimal.MustParse("1100000")))
}

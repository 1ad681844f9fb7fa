package credit

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

func sampleSpreadQuotes() []SpreadQuote {
	return []SpreadQuote{
		{Tenor: decimal.MustParse("5"), Spread: decimal.MustParse("0.02")},
		{Tenor: decimal.MustParse("1"), Spread: decimal.MustParse("0.01")},
		{Tenor: decimal.MustParse("3"), Spread: decimal.MustParse("0.015")},
	}
}

func TestBootstrapSortsByTenorAndProducesDecreasingSurvival(t *testing.T) {
	ctx := decimal.NewContext(28)
	curve, err := Bootstrap(ctx, "ACME CORP", sampleSpreadQuotes(), decimal.MustParse("0.4"), mustTS(t), "disc-1", "cfg-1")
	require.NoError(t, err)
	require.Len(t, curve.Tenors, 3)
	assert.Equal(t, 0, decimal.Cmp(curve.Tenors[0], decimal.MustParse("1")))
	for i := 1; i < len(curve.SurvivalProbs); i++ {
		assert.True(t, decimal.Cmp(curve.SurvivalProbs[i], curve.SurvivalProbs[i-1]) <= 0)
	}
	for _, h := range curve.HazardRates {
		assert.True(t, decimal.Sign(h) >= 0)
	}
}

func TestBootstrapRejectsEmptyQuotes(t *testing.T) {
	ctx := decimal.NewContext(28)
	_, err := Bootstrap(ctx, "ACME CORP", nil, decimal.MustParse("0.4"), mustTS(t), "disc-1", "cfg-1")
	assert.Error(t, err)
}

func TestNewRejectsRecoveryOutOfRange(t *testing.T) {
	_, err := New("ACME CORP", mustTS(t),
		[]*decimal.Decimal{decimal.MustParse("1")},
		[]*decimal.Decimal{decimal.MustParse("0.9")},
		[]*decimal.Decimal{decimal.MustParse("0.1")},
		decimal.MustParse("1.0"), "disc-1", "cfg-1")
	assert.Error(t, err)
}

func TestNewRejectsNonMonotoneSurvival(t *testing.T) {
	_, err := New("ACME CORP", mustTS(t),
		[]*decimal.Decimal{decimal.MustParse("1"), decimal.MustParse("2")},
		[]*decimal.Decimal{decimal.MustParse("0.9"), decimal.MustParse("0.95")},
		[]*decimal.Decimal{decimal.MustParse("0.1"), decimal.MustParse("0.1")},
		decimal.MustParse("0.4"), "disc-1", "cfg-1")
	assert.Error(t, err)
}

func TestSurvivalFlatHazardBeyondLastTenor(t *testing.T) {
	ctx := decimal.NewContext(28)
	curve, err := Bootstrap(ctx, "ACME CORP", sampleSpreadQuotes(), decimal.MustParse("0.4"), mustTS(t), "disc-1", "cfg-1")
	require.NoError(t, err)
	q, err := curve.Survival(ctx, decimal.MustParse("10"))
	require.NoError(t, err)
	assert.True(t, decimal.Sign(q) > 0)
	assert.True(t, decimal.Cmp(q, curve.SurvivalProbs[len(curve.SurvivalProbs)-1]) < 0)
}

func TestGatesPassOnWellFormedCurve(t *testing.T) {
	ctx := decimal.NewContext(28)
	curve, err := Bootstrap(ctx, "ACME CORP", sampleSpreadQuotes(), decimal.MustParse("0.4"), mustTS(t), "disc-1", "cfg-1")
	require.NoError(t, err)
	for _, r := range Gates(curve) {
		assert.Truef(t, r.Passed, "gate %s failed: %s", r.Gate, r.Detail)
	}
}

func TestGatesFlagNonMonotoneSurvivalDirectly(t *testing.T) {
	curve := CreditCurve{
		ReferenceEntity: "ACME CORP",
		Tenors:          []*decimal.Decimal{decimal.MustParse("1"), decimal.MustParse("2")},
		SurvivalProbs:   []*decimal.Decimal{decimal.MustParse("0.9"), decimal.MustParse("0.95")},
		HazardRates:     []*decimal.Decimal{decimal.MustParse("0.1"), decimal.MustParse("0.1")},
		RecoveryRate:    decimal.MustParse("0.4"),
	}
	results := Gates(curve)
	found := false
	for _, r := range results {
		if r.Gate == "AF-CR-03" {
			found = true
			assert.False(t, r.Passed)
		}
	}
	assert.True(t, found)
}

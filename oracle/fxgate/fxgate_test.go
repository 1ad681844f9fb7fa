package fxgate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withobsrvr/attestor/decimal"
)

func TestTriangularArbitragePassesOnConsistentRates(t *testing.T) {
	ctx := decimal.NewContext(28)
	// USD/EUR * EUR/GBP * GBP/USD ~= 1
	triangles := []Triangle{{
		AB: Rate{Base: "USD", Quote: "EUR", Value: decimal.MustParse("0.9")},
		BC: Rate{Base: "EUR", Quote: "GBP", Value: decimal.MustParse("0.8")},
		CA: Rate{Base: "GBP", Quote: "USD", Value: decimal.MustParse("1.3889")},
	}}
	results, err := TriangularArbitrage(ctx, triangles, decimal.MustParse("0.001"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestTriangularArbitrageFlagsInconsistentRates(t *testing.T) {
	ctx := decimal.NewContext(28)
	triangles := []Triangle{{
		AB: Rate{Base: "USD", Quote: "EUR", Value: decimal.MustParse("0.9")},
		BC: Rate{Base: "EUR", Quote: "GBP", Value: decimal.MustParse("0.8")},
		CA: Rate{Base: "GBP", Quote: "USD", Value: decimal.MustParse("2.0")},
	}}
	results, err := TriangularArbitrage(ctx, triangles, decimal.MustParse("0.001"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, Critical, results[0].Severity)
}

func TestTriangularArbitrageFlagsNonPositiveLeg(t *testing.T) {
	ctx := decimal.NewContext(28)
	triangles := []Triangle{{
		AB: Rate{Base: "USD", Quote: "EUR", Value: decimal.MustParse("-0.9")},
		BC: Rate{Base: "EUR", Quote: "GBP", Value: decimal.MustParse("0.8")},
		CA: Rate{Base: "GBP", Quote: "USD", Value: decimal.MustParse("1.3889")},
	}}
	results, err := TriangularArbitrage(ctx, triangles, decimal.MustParse("0.001"))
	require.NoError(t, err)
	found := false
	for _, r := range results {
		if !r.Passed {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCoveredInterestParityPasses(t *testing.T) {
	ctx := decimal.NewContext(28)
	checks := []ParityCheck{{
		Pair: "USD/EUR", Spot: decimal.MustParse("1.1"), Forward: decimal.MustParse("1.09"),
		DomesticDiscount: decimal.MustParse("0.99"), ForeignDiscount: decimal.MustParse("0.998"),
	}}
	results, err := CoveredInterestParity(ctx, checks, decimal.MustParse("0.01"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestCoveredInterestParityRejectsNonPositiveInputs(t *testing.T) {
	ctx := decimal.NewContext(28)
	checks := []ParityCheck{{
		Pair: "USD/EUR", Spot: decimal.MustParse("-1.1"), Forward: decimal.MustParse("1.09"),
		DomesticDiscount: decimal.MustParse("0.99"), ForeignDiscount: decimal.MustParse("0.998"),
	}}
	results, err := CoveredInterestParity(ctx, checks, decimal.MustParse("0.01"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
}

func TestCoveredInterestParityFlagsViolation(t *testing.T) {
	ctx := decimal.NewContext(28)
	checks := []ParityCheck{{
		Pair: "USD/EUR", Spot: decimal.MustParse("1.1"), Forward: decimal.MustParse("1.5"),
		DomesticDiscount: decimal.MustParse("0.99"), ForeignDiscount: decimal.MustParse("0.998"),
	}}
	results, err := CoveredInterestParity(ctx, checks, decimal.MustParse("0.01"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, High, results[0].Severity)
}

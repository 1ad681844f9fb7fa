package marketdata

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

func TestIngestEquityFillRejectsNonPositivePrice(t *testing.T) {
	ts := mustTS(t, "2025-06-15T10:00:00Z")
	_, err := IngestEquityFill("AAPL", decimal.Zero(), "USD", "XNAS", ts, "ref-1")
	assert.Error(t, err)
}

func TestIngestEquityFillProducesFirmAttestation(t *testing.T) {
	ts := mustTS(t, "2025-06-15T10:00:00Z")
	att, err := IngestEquityFill("AAPL", decimal.MustParse("150.25"), "USD", "XNAS", ts, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", att.Value.InstrumentID)
	_, ok := att.Confidence.(interface{ CanonicalBytes() ([]byte, error) })
	assert.True(t, ok)
}

func TestIngestEquityQuoteUsesMidPrice(t *testing.T) {
	ctx := decimal.NewContext(28)
	ts := mustTS(t, "2025-06-15T10:00:00Z")
	att, err := IngestEquityQuote(ctx, "AAPL", decimal.MustParse("150"), decimal.MustParse("151"), "USD", "XNAS", ts)
	require.NoError(t, err)
	assert.Equal(t, 0, decimal.Cmp(att.Value.Price, decimal.MustParse("150.5")))
}

func TestIngestFXRateRejectsSameCurrencyPair(t *testing.T) {
	ctx := decimal.NewContext(28)
	ts := mustTS(t, "2025-06-15T10:00:00Z")
	_, err := IngestFXRate(ctx, "EUR", "EUR", decimal.MustParse("1.1"), decimal.MustParse("1.1001"), "XNAS", ts)
	assert.Error(t, err)
}

func TestIngestFXRateFirmRejectsNonPositiveRate(t *testing.T) {
	ts := mustTS(t, "2025-06-15T10:00:00Z")
	_, err := IngestFXRateFirm("EUR", "USD", decimal.Zero(), "ECB", ts, "ecb-fix-1")
	assert.Error(t, err)
}

func TestIngestRateFixingAllowsNegativeRate(t *testing.T) {
	ts := mustTS(t, "2025-06-15T10:00:00Z")
	att, err := IngestRateFixing("EURIBOR-3M", decimal.MustParse("-0.25"), ts, "EMMI", ts, "fix-1")
	require.NoError(t, err)
	assert.Equal(t, 0, decimal.Cmp(att.Value.Rate, decimal.MustParse("-0.25")))
}

func TestIngestRateFixingRejectsEmptyIndexName(t *testing.T) {
	ts := mustTS(t, "2025-06-15T10:00:00Z")
	_, err := IngestRateFixing("", decimal.MustParse("0.05"), ts, "EMMI", ts, "fix-1")
	assert.Error(t, err)
}

package decimal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayCountFractionACT360(t *testing.T) {
	c := NewContext(28)
	start := date(2025, 1, 1)
	end := date(2025, 4, 1) // 90 days
	frac, err := c.DayCountFraction(start, end, ACT360, nil)
	require.NoError(t, err)
	want := MustParse("0.25")
	assert.Equal(t, 0, Cmp(frac, want))
}

func TestDayCountFractionACT365(t *testing.T) {
	c := NewContext(28)
	start := date(2025, 1, 1)
	end := date(2026, 1, 1) // 365 days, non-leap
	frac, err := c.DayCountFraction(start, end, ACT365, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, Cmp(frac, One()))
}

func TestDayCountFraction30360(t *testing.T) {
	c := NewContext(28)
	start := date(2025, 1, 31)
	end := date(2025, 2, 28)
	frac, err := c.DayCountFraction(start, end, Thirty360, nil)
	require.NoError(t, err)
	// d1 capped to 30, d2 stays 28 (not 31): (28-30)=-2 days -> 28/360
	want := MustParse("0.07777777777777777777777777778")
	diff, _ := c.Sub(frac, want)
	absDiff, _ := c.Abs(diff)
	assert.True(t, Cmp(absDiff, MustParse("0.00000001")) < 0)
}

func TestDayCountFraction30360CapsEndDateUnconditionally(t *testing.T) {
	c := NewContext(28)
	start := date(2025, 1, 15)
	end := date(2025, 1, 31)
	frac, err := c.DayCountFraction(start, end, Thirty360, nil)
	require.NoError(t, err)
	// d1 stays 15, d2 capped to 30 regardless of d1: (30-15)=15 days -> 15/360
	want := MustParse("15")
	wantFrac, _ := c.Quo(want, NewFromInt64(360, 0))
	assert.Equal(t, 0, Cmp(frac, wantFrac))
}

func TestDayCountFractionUnknownConventionPanics(t *testing.T) {
	c := NewContext(28)
	assert.Panics(t, func() {
		_, _ = c.DayCountFraction(date(2025, 1, 1), date(2025, 2, 1), DayCountConvention("NOPE"), nil)
	})
}

func TestDayCountFractionActActISDALeapYear(t *testing.T) {
	c := NewContext(28)
	start := date(2024, 1, 1)
	end := date(2025, 1, 1) // spans all of leap year 2024
	frac, err := c.DayCountFraction(start, end, ActActISDA, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, Cmp(frac, One()))
}

func TestDayCountFractionBUS252(t *testing.T) {
	c := NewContext(28)
	start := date(2025, 6, 2)  // Monday
	end := date(2025, 6, 9)    // next Monday: 5 business days between
	frac, err := c.DayCountFraction(start, end, BUS252, nil)
	require.NoError(t, err)
	want := MustParse("5")
	wantFrac, _ := c.Quo(want, NewFromInt64(252, 0))
	assert.Equal(t, 0, Cmp(frac, wantFrac))
}

func TestDayCountFractionACTACTICMA(t *testing.T) {
	c := NewContext(28)
	periodStart := date(2025, 1, 1)
	periodEnd := date(2025, 7, 1) // 181 days, semiannual
	frac, err := c.DayCountFraction(periodStart, periodEnd, ActActICMA, &ICMAParams{
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		PeriodsPerYear: 2,
	})
	require.NoError(t, err)
	want := MustParse("0.5")
	assert.Equal(t, 0, Cmp(frac, want))
}

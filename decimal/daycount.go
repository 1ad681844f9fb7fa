package decimal

import (
	"time"

	"github.com/withobsrvr/attestor/result"
)

// DayCountConvention names a day-count basis used to compute year
// fractions between two dates.
type DayCountConvention string

const (
	ACT360       DayCountConvention = "ACT/360"
	ACT365       DayCountConvention = "ACT/365"
	Thirty360    DayCountConvention = "30/360"
	ActActISDA   DayCountConvention = "ACT/ACT.ISDA"
	ActActICMA   DayCountConvention = "ACT/ACT.ICMA"
	Thirty360E   DayCountConvention = "30E/360"
	ACT365L      DayCountConvention = "ACT/365L"
	BUS252       DayCountConvention = "BUS/252"
)

// ICMAParams carries the extra inputs ACT/ACT.ICMA needs: the regular
// coupon period bounding the accrual, and the number of coupon periods
// per year.
type ICMAParams struct {
	PeriodStart      time.Time
	PeriodEnd        time.Time
	PeriodsPerYear   int
}

// DayCountFraction computes the year fraction between start and end under
// convention. An unknown convention is a programmer error — the source
// module treats it as a total failure mode, so this function panics rather
// than returning Err, matching spec §4.1 ("failure mode is total — an
// unknown convention is a programmer error").
//
// icma is only consulted for ActActICMA and may be nil for every other
// convention.
func (c *Context) DayCountFraction(start, end time.Time, convention DayCountConvention, icma *ICMAParams) (*Decimal, error) {
	switch convention {
	case ACT360:
		return c.actualOverConstant(start, end, 360)
	case ACT365:
		return c.actualOverConstant(start, end, 365)
	case Thirty360:
		return c.thirty360(start, end, false)
	case Thirty360E:
		return c.thirty360(start, end, true)
	case ActActISDA:
		return c.actActISDA(start, end)
	case ActActICMA:
		if icma == nil {
			return nil, result.NewDomainError("ICMA_PARAMS_MISSING", "ACT/ACT.ICMA requires period bounds")
		}
		return c.actActICMA(start, end, *icma)
	case ACT365L:
		return c.act365L(start, end)
	case BUS252:
		return c.bus252(start, end)
	default:
		panic("decimal: unknown day-count convention " + string(convention))
	}
}

func daysBetween(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours() / 24)
}

func (c *Context) actualOverConstant(start, end time.Time, base int64) (*Decimal, error) {
	days := NewFromInt64(daysBetween(start, end), 0)
	return c.Quo(days, NewFromInt64(base, 0))
}

// thirty360Days implements the 30/360 day-30 capping rule: both the
// start and end day-of-month are capped to 30, unconditionally and
// independently of each other. The european flag plays no role in this
// capping (30/360 and 30E/360 cap identically); it is retained as a
// parameter for call-site symmetry with the two DayCountConvention
// values that share this helper.
func thirty360Days(start, end time.Time, european bool) (d1, d2, m1, m2, y1, y2 int) {
	y1, m1m, day1 := start.Date()
	y2, m2m, day2 := end.Date()
	m1, m2 = int(m1m), int(m2m)
	d1 = min(day1, 30)
	d2 = min(day2, 30)
	return d1, d2, m1, m2, y1, y2
}

func (c *Context) thirty360(start, end time.Time, european bool) (*Decimal, error) {
	d1, d2, m1, m2, y1, y2 := thirty360Days(start, end, european)
	numerator := int64(360*(y2-y1) + 30*(m2-m1) + (d2 - d1))
	num := NewFromInt64(numerator, 0)
	return c.Quo(num, NewFromInt64(360, 0))
}

// actActISDA splits the period at each year boundary and weights the
// actual days in each calendar year by that year's actual length (365 or
// 366).
func (c *Context) actActISDA(start, end time.Time) (*Decimal, error) {
	if !end.After(start) {
		return c.actualOverConstant(start, end, 365)
	}
	total := Zero()
	cursor := start
	var err error
	for cursor.Before(end) {
		yearEnd := time.Date(cursor.Year()+1, 1, 1, 0, 0, 0, 0, time.UTC)
		segmentEnd := yearEnd
		if end.Before(yearEnd) {
			segmentEnd = end
		}
		days := daysBetween(cursor, segmentEnd)
		yearLen := int64(365)
		if isLeapYear(cursor.Year()) {
			yearLen = 366
		}
		segFrac, err2 := c.Quo(NewFromInt64(days, 0), NewFromInt64(yearLen, 0))
		if err2 != nil {
			return nil, err2
		}
		total, err = c.Add(total, segFrac)
		if err != nil {
			return nil, err
		}
		cursor = segmentEnd
	}
	return total, nil
}

func isLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// actActICMA computes actual days over (period length in days * periods
// per year) per the regular-period ISMA/ICMA convention.
func (c *Context) actActICMA(start, end time.Time, p ICMAParams) (*Decimal, error) {
	periodDays := daysBetween(p.PeriodStart, p.PeriodEnd)
	days := daysBetween(start, end)
	denom, err := c.Mul(NewFromInt64(periodDays, 0), NewFromInt64(int64(p.PeriodsPerYear), 0))
	if err != nil {
		return nil, err
	}
	return c.Quo(NewFromInt64(days, 0), denom)
}

// act365L uses 366 in the denominator when the period end falls in a leap
// year and 29 February of that year lies in [start, end), else 365. A
// 29 February in an earlier year of a multi-year period is not counted.
func (c *Context) act365L(start, end time.Time) (*Decimal, error) {
	base := int64(365)
	if isLeapYear(end.Year()) {
		feb29 := time.Date(end.Year(), 2, 29, 0, 0, 0, 0, time.UTC)
		if !feb29.Before(start) && feb29.Before(end) {
			base = 366
		}
	}
	return c.actualOverConstant(start, end, base)
}

// bus252 counts business days (Mon-Fri, no holiday calendar) between start
// and end over a 252 business-day year — the Brazilian BUS/252 market
// convention. No holiday calendar is modeled; only weekends are excluded.
func (c *Context) bus252(start, end time.Time) (*Decimal, error) {
	count := int64(0)
	cursor := start
	for cursor.Before(end) {
		if wd := cursor.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return c.Quo(NewFromInt64(count, 0), NewFromInt64(252, 0))
}

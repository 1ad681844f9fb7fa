package types

import (
	"time"

	"github.com/withobsrvr/attestor/result"
)

// UTCDateTime is an instant built from a timezone-aware value and always
// normalized to UTC internally. Naive datetimes — the zero time.Time, or
// a string with no explicit offset — are rejected at construction rather
// than silently treated as UTC.
type UTCDateTime struct {
	t time.Time
}

// NewUTCDateTime validates t carries real timezone information (is not
// the unset zero value) and normalizes it to UTC.
func NewUTCDateTime(t time.Time) (UTCDateTime, error) {
	if t.IsZero() {
		return UTCDateTime{}, result.NewValidationError(result.FieldViolation{
			Path: "value", Constraint: "must not be the zero/naive time value", Actual: t.String(),
		})
	}
	return UTCDateTime{t: t.UTC()}, nil
}

// ParseUTCDateTime parses s as RFC 3339 with an explicit offset — a
// string with no offset fails to parse and is rejected, which is how
// naive datetime strings are excluded at this boundary.
func ParseUTCDateTime(s string) (UTCDateTime, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return UTCDateTime{}, result.NewValidationError(result.FieldViolation{
			Path: "value", Constraint: "must be RFC3339 with an explicit offset", Actual: s,
		})
	}
	return UTCDateTime{t: t.UTC()}, nil
}

// Time returns the underlying UTC time.Time.
func (u UTCDateTime) Time() time.Time { return u.t }

// Before, After, Equal delegate to time.Time comparisons.
func (u UTCDateTime) Before(o UTCDateTime) bool { return u.t.Before(o.t) }
func (u UTCDateTime) After(o UTCDateTime) bool  { return u.t.After(o.t) }
func (u UTCDateTime) Equal(o UTCDateTime) bool  { return u.t.Equal(o.t) }

// ISO8601 renders the canonical ISO-8601-with-offset form canonical
// serialization uses for all timestamps.
func (u UTCDateTime) ISO8601() string {
	return u.t.Format(time.RFC3339Nano)
}

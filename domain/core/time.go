package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// ParseEpoch parses epoch seconds, with an optional fractional part, as
// sent by the analysis service in created_at fields.
func ParseEpoch(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, fmt.Errorf("empty epoch value")
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid epoch value %q: %w", s, err)
	}
	whole, frac := math.Modf(secs)
	return Timestamp(time.Unix(int64(whole), int64(frac*1e9)).UTC()), nil
}

// LocalDisplay formats the timestamp the way the result pages show it,
// day/month/year with a 24h clock, in the given location.
func (t Timestamp) LocalDisplay(loc *time.Location) string {
	if t.IsZero() {
		return "—"
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Time(t).In(loc).Format("2/1/2006, 15:04:05")
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

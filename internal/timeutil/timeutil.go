package timeutil

import (
	"strconv"
	"time"
)

// Timestamp is the wire representation of a point in time: milliseconds since
// the Unix epoch. The database stores native timestamptz values; Timestamp
// only exists at the JSON boundary so clients never exchange date strings.
type Timestamp int64

// At converts a time.Time to a Timestamp, truncating to millisecond precision.
func At(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return At(time.Now())
}

// Time converts the Timestamp back to a time.Time in the local zone.
// At(d).Time() reproduces d to the millisecond.
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts))
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(ts), 10)), nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*ts = Timestamp(v)
	return nil
}

// SameDay reports whether a and b fall on the same calendar day in local time.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight at the start of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

// DayRange returns [start of day, end of day] for t.
func DayRange(t time.Time) (time.Time, time.Time) {
	return StartOfDay(t), EndOfDay(t)
}

// WeekRange returns the Sunday-to-Saturday week containing t, with the end
// clamped to the last millisecond of Saturday.
func WeekRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
	end := EndOfDay(start.AddDate(0, 0, 6))
	return start, end
}

// MonthRange returns the first and last instant of t's calendar month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	end := EndOfDay(start.AddDate(0, 1, -1))
	return start, end
}

// DaysBetween returns the inclusive number of calendar days from start to
// end. Same-day inputs count as 1; end before start returns 0.
func DaysBetween(start, end time.Time) int {
	s := StartOfDay(start)
	e := StartOfDay(end)
	if e.Before(s) {
		return 0
	}
	days := 1
	for d := s; d.Before(e); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

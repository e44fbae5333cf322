package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestampRoundTrip(t *testing.T) {
	d := time.Date(2026, time.March, 14, 15, 9, 26, 535_000_000, time.Local)

	got := At(d).Time()
	require.True(t, got.Equal(d), "expected %v, got %v", d, got)
}

func TestTimestampTruncatesBelowMillisecond(t *testing.T) {
	d := time.Date(2026, time.March, 14, 15, 9, 26, 535_999_999, time.Local)

	got := At(d).Time()
	require.Equal(t, 535, got.Nanosecond()/1_000_000)
	require.True(t, got.Before(d))
}

func TestTimestampJSON(t *testing.T) {
	ts := Timestamp(1767225600123)

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	require.Equal(t, "1767225600123", string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, ts, back)
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, time.July, 4, 0, 0, 1, 0, time.Local)
	night := time.Date(2026, time.July, 4, 23, 59, 59, 0, time.Local)
	nextDay := time.Date(2026, time.July, 5, 0, 0, 0, 0, time.Local)

	require.True(t, SameDay(morning, night))
	require.False(t, SameDay(night, nextDay))
}

func TestWeekRange(t *testing.T) {
	// 2026-07-08 is a Wednesday.
	wed := time.Date(2026, time.July, 8, 13, 0, 0, 0, time.Local)

	start, end := WeekRange(wed)
	require.Equal(t, time.Sunday, start.Weekday())
	require.Equal(t, 5, start.Day())
	require.Equal(t, time.Saturday, end.Weekday())
	require.Equal(t, 11, end.Day())
	require.Equal(t, 23, end.Hour())
}

func TestMonthRange(t *testing.T) {
	d := time.Date(2026, time.February, 10, 8, 0, 0, 0, time.Local)

	start, end := MonthRange(d)
	require.Equal(t, 1, start.Day())
	require.Equal(t, 28, end.Day())
	require.Equal(t, time.February, end.Month())
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.Local)

	require.Equal(t, 1, DaysBetween(start, start))
	require.Equal(t, 7, DaysBetween(start, start.AddDate(0, 0, 6)))
	require.Equal(t, 0, DaysBetween(start, start.AddDate(0, 0, -1)))
	// Hour-of-day must not affect the day count.
	late := time.Date(2026, time.May, 3, 23, 30, 0, 0, time.Local)
	require.Equal(t, 3, DaysBetween(start, late))
}

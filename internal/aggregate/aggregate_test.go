package aggregate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	return time.Now().AddDate(0, 0, offset)
}

func TestSummarizeEmptyListHasZeroAverages(t *testing.T) {
	s := Summarize(nil)

	require.Equal(t, 0, s.Count)
	require.Zero(t, s.AvgDuration)
	require.Zero(t, s.AvgCalories)
	require.Zero(t, s.AvgDistance)
	require.False(t, math.IsNaN(s.AvgDuration))
}

func TestSummarizeAverages(t *testing.T) {
	s := Summarize([]ActivityRecord{
		{DurationMin: 30, Calories: 300, DistanceKm: 5},
		{DurationMin: 60, Calories: 500, DistanceKm: 10},
	})

	require.Equal(t, 2, s.Count)
	require.Equal(t, 90.0, s.TotalDuration)
	require.Equal(t, 45.0, s.AvgDuration)
	require.Equal(t, 400.0, s.AvgCalories)
	require.Equal(t, 7.5, s.AvgDistance)
}

func TestDailySeriesCoversEveryDayInclusive(t *testing.T) {
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.Local)

	records := []ActivityRecord{
		{Date: start.Add(9 * time.Hour), DurationMin: 30, Calories: 200, DistanceKm: 3},
		{Date: start.Add(20 * time.Hour), DurationMin: 15, Calories: 100},
	}

	points := DailySeries(records, start, end)
	require.Len(t, points, 10)

	require.Equal(t, "2026-06-01", points[0].Date)
	require.Equal(t, 45.0, points[0].Duration)
	require.Equal(t, 300.0, points[0].Calories)
	require.Equal(t, 3000.0, points[0].Steps)
	require.Equal(t, 2, points[0].Activities)

	// Remaining days are present with zeroes, not omitted.
	for _, p := range points[1:] {
		require.Zero(t, p.Duration)
		require.Zero(t, p.Activities)
	}
}

func TestDailySeriesMatchesByCalendarDayNotTimestamp(t *testing.T) {
	d := time.Date(2026, time.June, 5, 23, 58, 0, 0, time.Local)
	points := DailySeries([]ActivityRecord{{Date: d, DurationMin: 10}}, midnight(d), midnight(d))

	require.Len(t, points, 1)
	require.Equal(t, 10.0, points[0].Duration)
}

// midnight returns a bound with a different time-of-day than the record.
func midnight(d time.Time) time.Time {
	y, m, dd := d.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, d.Location())
}

func TestTrendZeroWhenPriorWindowEmpty(t *testing.T) {
	records := []ActivityRecord{
		{Date: day(-1), DurationMin: 30},
		{Date: day(-2), DurationMin: 60},
	}

	got := Trend(records, time.Now())
	require.Zero(t, got)
	require.False(t, math.IsInf(got, 0))
}

func TestTrendPercentageChange(t *testing.T) {
	records := []ActivityRecord{
		{Date: day(-1), DurationMin: 90},
		{Date: day(-10), DurationMin: 60},
	}

	require.InDelta(t, 50.0, Trend(records, time.Now()), 0.001)
}

func TestGoalAchieved(t *testing.T) {
	require.True(t, GoalAchieved(10000, 10000))
	require.True(t, GoalAchieved(10001, 10000))
	require.False(t, GoalAchieved(9999, 10000))
}

func TestProjectGoalDailyNeeded(t *testing.T) {
	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.Local)
	targetDate := now.AddDate(0, 0, 10)

	p := ProjectGoal(10000, 4000, targetDate, now)
	require.Equal(t, 10, p.DaysRemaining)
	require.InDelta(t, 600.0, p.DailyNeeded, 0.001)
	require.InDelta(t, 40.0, p.ProgressPct, 0.001)
	require.False(t, p.OnTrack)
	require.Equal(t, "Needs Improvement", p.Predicted)
}

func TestProjectGoalPastDeadlineAvoidsDivideByZero(t *testing.T) {
	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.Local)

	p := ProjectGoal(100, 50, now.AddDate(0, 0, -3), now)
	require.False(t, math.IsInf(p.DailyNeeded, 0))
	require.False(t, math.IsNaN(p.DailyNeeded))
	require.InDelta(t, 50.0, p.DailyNeeded, 0.001)
}

func TestProjectGoalOnTrack(t *testing.T) {
	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.Local)

	p := ProjectGoal(100, 80, now.AddDate(0, 0, 5), now)
	require.True(t, p.OnTrack)
	require.Equal(t, "On Track", p.Predicted)
}

func TestDistributionCoversEveryLabel(t *testing.T) {
	records := []ActivityRecord{
		{Type: "running"},
		{Type: "cycling"},
		{Type: "running"},
		{Type: "yoga"},
	}

	dist := Distribution(records)
	require.Equal(t, []DistributionEntry{
		{Name: "running", Value: 2},
		{Name: "cycling", Value: 1},
		{Name: "yoga", Value: 1},
	}, dist)
}

func TestBMIBoundaryFallsIntoUpperCategory(t *testing.T) {
	// 81kg at 180cm is exactly 25.0: the Normal/Overweight cutoff lands on
	// the upper side.
	bmi, category, ok := BMI(180, 81)
	require.True(t, ok)
	require.InDelta(t, 25.0, bmi, 0.0001)
	require.Equal(t, "Overweight", category)
}

func TestBMICategories(t *testing.T) {
	cases := []struct {
		height, weight float64
		want           string
	}{
		{180, 55, "Underweight"},
		{180, 70, "Normal"},
		{180, 90, "Overweight"},
		{180, 110, "Obese"},
	}
	for _, tc := range cases {
		_, category, ok := BMI(tc.height, tc.weight)
		require.True(t, ok)
		require.Equal(t, tc.want, category)
	}
}

func TestBMIUndefinedWithoutHeightOrWeight(t *testing.T) {
	_, _, ok := BMI(0, 80)
	require.False(t, ok)
	_, _, ok = BMI(175, 0)
	require.False(t, ok)
}

func TestSumWeekExcludesRecordsOutsideWindow(t *testing.T) {
	// Spec scenario: 30/45/20 minutes and 300/400/150 calories dated today,
	// yesterday and eight days ago. The week covers the last 7 days.
	records := []ActivityRecord{
		{Date: day(0), DurationMin: 30, Calories: 300},
		{Date: day(-1), DurationMin: 45, Calories: 400},
		{Date: day(-8), DurationMin: 20, Calories: 150},
	}

	totals := SumWeek(records, day(-6), day(0))
	require.Equal(t, 75.0, totals.ActiveMinutes)
	require.Equal(t, 700.0, totals.Calories)
	require.Equal(t, 2, totals.Activities)
}

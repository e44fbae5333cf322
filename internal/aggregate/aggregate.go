// Package aggregate holds the pure computation core: totals, time-bucketed
// series, trends, goal projections, distributions and BMI. Every function is
// side-effect free and operates on already-fetched records, so the package
// has no persistence or transport dependencies.
package aggregate

import (
	"math"
	"time"

	"github.com/mybenefit/fitness-backend/internal/timeutil"
)

// ActivityRecord is the in-memory shape aggregators consume. Optional source
// fields (distance, calories) arrive as zero when absent.
type ActivityRecord struct {
	Type        string
	Date        time.Time
	DurationMin float64
	DistanceKm  float64
	Calories    float64
}

// Summary captures totals and arithmetic means over a list of activities.
type Summary struct {
	Count         int     `json:"count"`
	TotalDuration float64 `json:"total_duration"`
	TotalCalories float64 `json:"total_calories"`
	TotalDistance float64 `json:"total_distance"`
	AvgDuration   float64 `json:"avg_duration"`
	AvgCalories   float64 `json:"avg_calories"`
	AvgDistance   float64 `json:"avg_distance"`
}

// Summarize computes Summary over records. Averages are 0 for an empty list.
func Summarize(records []ActivityRecord) Summary {
	s := Summary{Count: len(records)}
	for _, r := range records {
		s.TotalDuration += r.DurationMin
		s.TotalCalories += r.Calories
		s.TotalDistance += r.DistanceKm
	}
	if s.Count > 0 {
		n := float64(s.Count)
		s.AvgDuration = s.TotalDuration / n
		s.AvgCalories = s.TotalCalories / n
		s.AvgDistance = s.TotalDistance / n
	}
	return s
}

// SeriesPoint is one calendar day in a time-bucketed series.
type SeriesPoint struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	Steps      float64 `json:"steps"`
	Calories   float64 `json:"calories"`
	Duration   float64 `json:"duration"`
	Activities int     `json:"activities"`
}

// DailySeries produces one point per calendar day in [start, end] inclusive.
// Days without matching records yield a zero point, never an omitted one.
// Records match a day by local calendar-day equality, not exact timestamps.
// Steps are derived from distance (km * 1000) since activities do not carry
// a step count of their own.
func DailySeries(records []ActivityRecord, start, end time.Time) []SeriesPoint {
	days := timeutil.DaysBetween(start, end)
	points := make([]SeriesPoint, 0, days)

	day := timeutil.StartOfDay(start)
	for i := 0; i < days; i++ {
		p := SeriesPoint{Date: day.Format("2006-01-02")}
		for _, r := range records {
			if !timeutil.SameDay(r.Date, day) {
				continue
			}
			if r.DistanceKm > 0 {
				p.Steps += r.DistanceKm * 1000
			}
			p.Calories += r.Calories
			p.Duration += r.DurationMin
			p.Activities++
		}
		points = append(points, p)
		day = day.AddDate(0, 0, 1)
	}
	return points
}

// Trend compares the duration sum over the 7 days up to now against the 7
// days before that and returns the percentage change. A zero prior-period
// sum yields 0, so the result is always finite.
func Trend(records []ActivityRecord, now time.Time) float64 {
	var recent, previous float64
	for _, r := range records {
		age := now.Sub(r.Date).Hours() / 24
		switch {
		case age < 0:
			// future-dated records are outside both windows
		case age <= 7:
			recent += r.DurationMin
		case age <= 14:
			previous += r.DurationMin
		}
	}
	if previous == 0 {
		return 0
	}
	return (recent - previous) / previous * 100
}

// GoalAchieved is the single definition of the goal achieved invariant.
// Every write path that touches current or target must call it.
func GoalAchieved(current, target float64) bool {
	return current >= target
}

// Projection is the forward-looking view of a goal.
type Projection struct {
	ProgressPct   float64 `json:"progress_pct"` // unclamped; clamp at render
	DaysRemaining int     `json:"days_remaining"`
	DailyNeeded   float64 `json:"daily_needed"`
	OnTrack       bool    `json:"on_track"`
	Predicted     string  `json:"predicted_completion"`
}

// ProjectGoal computes the projection for a goal as of now. DaysRemaining is
// floored at 1 so DailyNeeded never divides by zero. The on-track comparison
// weighs the required daily rate against current/daysRemaining, matching the
// shipped behavior.
func ProjectGoal(target, current float64, targetDate, now time.Time) Projection {
	p := Projection{}
	if target != 0 {
		p.ProgressPct = current / target * 100
	}

	days := int(math.Ceil(targetDate.Sub(now).Hours() / 24))
	p.DaysRemaining = days
	if days < 1 {
		days = 1
	}

	p.DailyNeeded = (target - current) / float64(days)
	p.OnTrack = p.DailyNeeded <= current/float64(days)
	if p.OnTrack {
		p.Predicted = "On Track"
	} else {
		p.Predicted = "Needs Improvement"
	}
	return p
}

// DistributionEntry is one (activity type, count) pair.
type DistributionEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Distribution groups records by activity type and counts members per group.
// Every distinct type present appears exactly once; order follows first
// appearance in the input.
func Distribution(records []ActivityRecord) []DistributionEntry {
	counts := make(map[string]int, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		if _, seen := counts[r.Type]; !seen {
			order = append(order, r.Type)
		}
		counts[r.Type]++
	}

	out := make([]DistributionEntry, 0, len(order))
	for _, name := range order {
		out = append(out, DistributionEntry{Name: name, Value: counts[name]})
	}
	return out
}

// BMI computes body mass index from height in cm and weight in kg. ok is
// false when either input is missing or non-positive.
func BMI(heightCm, weightKg float64) (bmi float64, category string, ok bool) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, "", false
	}
	m := heightCm / 100
	bmi = weightKg / (m * m)

	// Boundary values fall into the upper category: exactly 25.0 is
	// Overweight, not Normal.
	switch {
	case bmi < 18.5:
		category = "Underweight"
	case bmi < 25:
		category = "Normal"
	case bmi < 30:
		category = "Overweight"
	default:
		category = "Obese"
	}
	return bmi, category, true
}

// WeekTotals is the summed weekly rollup written by the scheduled job.
type WeekTotals struct {
	Steps         float64
	Calories      float64
	ActiveMinutes float64
	Distance      float64
	Activities    int
}

// SumWeek sums records falling inside [start, end] by calendar day bounds.
// Active minutes come from duration and steps are derived from distance, the
// same convention DailySeries uses.
func SumWeek(records []ActivityRecord, start, end time.Time) WeekTotals {
	lo := timeutil.StartOfDay(start)
	hi := timeutil.EndOfDay(end)

	var t WeekTotals
	for _, r := range records {
		if r.Date.Before(lo) || r.Date.After(hi) {
			continue
		}
		if r.DistanceKm > 0 {
			t.Steps += r.DistanceKm * 1000
		}
		t.Calories += r.Calories
		t.ActiveMinutes += r.DurationMin
		t.Distance += r.DistanceKm
		t.Activities++
	}
	return t
}

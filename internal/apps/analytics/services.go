package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/aggregate"
	"github.com/mybenefit/fitness-backend/internal/apps/activity"
	"github.com/mybenefit/fitness-backend/internal/apps/goals"
	"github.com/mybenefit/fitness-backend/internal/scope"
	"github.com/mybenefit/fitness-backend/internal/timeutil"
	"gorm.io/gorm"
)

var ErrInvalidRange = errors.New("range must be week, month or year")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Performance is the summary card: rolled-up totals plus the 7-day trend.
type Performance struct {
	Summary aggregate.Summary `json:"summary"`
	Trend   float64           `json:"trend_pct"`
}

// GoalPrediction pairs a goal with its projection.
type GoalPrediction struct {
	Goal       goals.Goal           `json:"goal"`
	Projection aggregate.Projection `json:"projection"`
}

func (s *Service) records(userID uuid.UUID, start, end time.Time) ([]aggregate.ActivityRecord, error) {
	var list []activity.ExtendedActivity
	err := s.db.Scopes(scope.ForUser(userID)).
		Where("date >= ? AND date <= ?", start, end).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	return activity.Records(list), nil
}

// rangeBounds resolves a named range into inclusive day bounds ending now.
func rangeBounds(name string, now time.Time) (time.Time, time.Time, error) {
	end := timeutil.EndOfDay(now)
	switch name {
	case "week":
		return timeutil.StartOfDay(now.AddDate(0, 0, -6)), end, nil
	case "month":
		return timeutil.StartOfDay(now.AddDate(0, -1, 0)), end, nil
	case "year":
		return timeutil.StartOfDay(now.AddDate(-1, 0, 0)), end, nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
}

// Series returns the zero-filled daily series for a named range.
func (s *Service) Series(userID uuid.UUID, rangeName string, now time.Time) ([]aggregate.SeriesPoint, error) {
	start, end, err := rangeBounds(rangeName, now)
	if err != nil {
		return nil, err
	}
	records, err := s.records(userID, start, end)
	if err != nil {
		return nil, err
	}
	return aggregate.DailySeries(records, start, end), nil
}

// Performance summarizes the named range and computes the week-over-week
// trend from the trailing 14 days.
func (s *Service) Performance(userID uuid.UUID, rangeName string, now time.Time) (*Performance, error) {
	start, end, err := rangeBounds(rangeName, now)
	if err != nil {
		return nil, err
	}
	records, err := s.records(userID, start, end)
	if err != nil {
		return nil, err
	}

	trendRecords, err := s.records(userID, timeutil.StartOfDay(now.AddDate(0, 0, -13)), timeutil.EndOfDay(now))
	if err != nil {
		return nil, err
	}

	return &Performance{
		Summary: aggregate.Summarize(records),
		Trend:   aggregate.Trend(trendRecords, now),
	}, nil
}

// Predictions projects every unachieved goal forward from now.
func (s *Service) Predictions(userID uuid.UUID, now time.Time) ([]GoalPrediction, error) {
	var goalList []goals.Goal
	err := s.db.Scopes(scope.ForUser(userID)).
		Where("achieved = ?", false).
		Order("target_date ASC").Find(&goalList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	out := make([]GoalPrediction, 0, len(goalList))
	for _, g := range goalList {
		out = append(out, GoalPrediction{
			Goal:       g,
			Projection: aggregate.ProjectGoal(g.Target, g.Current, g.TargetDate, now),
		})
	}
	return out, nil
}

// Distribution counts activities per type over the named range.
func (s *Service) Distribution(userID uuid.UUID, rangeName string, now time.Time) ([]aggregate.DistributionEntry, error) {
	start, end, err := rangeBounds(rangeName, now)
	if err != nil {
		return nil, err
	}
	records, err := s.records(userID, start, end)
	if err != nil {
		return nil, err
	}
	return aggregate.Distribution(records), nil
}

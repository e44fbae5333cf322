package activity

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/aggregate"
	"github.com/mybenefit/fitness-backend/internal/scope"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"gorm.io/gorm"
)

// Collection is the topic name the real-time bridge uses for extended
// activities.
const Collection = "extendedActivities"

var (
	ErrInvalidType     = errors.New("unknown activity type")
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
	ErrInvalidMetric   = errors.New("optional metrics must be positive when provided")
	ErrNotFound        = errors.New("activity not found")
)

type Service struct {
	db     *gorm.DB
	broker *subscription.Broker
}

func NewService(db *gorm.DB, broker *subscription.Broker) *Service {
	return &Service{db: db, broker: broker}
}

// CreateSimple records a legacy daily activity row.
func (s *Service) CreateSimple(userID uuid.UUID, req *CreateSimpleRequest) (*Activity, error) {
	a := Activity{
		ID:             uuid.New(),
		UserID:         userID,
		Date:           req.Date.Time(),
		Steps:          req.Steps,
		CaloriesBurned: req.CaloriesBurned,
		Distance:       req.Distance,
		ActiveMinutes:  req.ActiveMinutes,
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	s.broker.Publish(scope.Topic("activities", userID))
	return &a, nil
}

// ListSimple returns up to limit simple activities, newest first.
func (s *Service) ListSimple(userID uuid.UUID, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []Activity
	err := s.db.Scopes(scope.ForUser(userID)).
		Order("date DESC").Limit(limit).Find(&out).Error
	return out, err
}

// ListSimpleByRange returns simple activities whose date falls in [start, end].
func (s *Service) ListSimpleByRange(userID uuid.UUID, start, end time.Time) ([]Activity, error) {
	var out []Activity
	err := s.db.Scopes(scope.ForUser(userID)).
		Where("date >= ? AND date <= ?", start, end).
		Order("date DESC").Find(&out).Error
	return out, err
}

func validate(activityType string, duration float64, distance, calories *float64) error {
	valid := false
	for _, t := range ActivityTypes {
		if t == activityType {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidType
	}
	if duration <= 0 {
		return ErrInvalidDuration
	}
	if distance != nil && *distance <= 0 {
		return ErrInvalidMetric
	}
	if calories != nil && *calories <= 0 {
		return ErrInvalidMetric
	}
	return nil
}

// Create records an extended activity. The timestamp column is always
// server-set so range queries keep a stable ordering.
func (s *Service) Create(userID uuid.UUID, req *CreateRequest) (*ExtendedActivity, error) {
	if err := validate(req.ActivityType, req.DurationMin, req.Distance, req.CaloriesBurned); err != nil {
		return nil, err
	}

	a := ExtendedActivity{
		ID:             uuid.New(),
		UserID:         userID,
		ActivityType:   req.ActivityType,
		DurationMin:    req.DurationMin,
		Distance:       req.Distance,
		CaloriesBurned: req.CaloriesBurned,
		Notes:          req.Notes,
		Date:           req.Date.Time(),
		Timestamp:      time.Now(),
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("failed to create extended activity: %w", err)
	}
	s.broker.Publish(scope.Topic(Collection, userID))
	return &a, nil
}

// List returns all of the user's extended activities, newest first.
func (s *Service) List(userID uuid.UUID) ([]ExtendedActivity, error) {
	var out []ExtendedActivity
	err := s.db.Scopes(scope.ForUser(userID)).
		Order("date DESC").Find(&out).Error
	return out, err
}

// ListByRange returns extended activities dated within [start, end].
func (s *Service) ListByRange(userID uuid.UUID, start, end time.Time) ([]ExtendedActivity, error) {
	var out []ExtendedActivity
	err := s.db.Scopes(scope.ForUser(userID)).
		Where("date >= ? AND date <= ?", start, end).
		Order("date DESC").Find(&out).Error
	return out, err
}

// Update applies the provided fields to an activity the user owns.
func (s *Service) Update(userID, id uuid.UUID, req *UpdateRequest) (*ExtendedActivity, error) {
	var a ExtendedActivity
	if err := s.db.Scopes(scope.ForUser(userID)).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	if req.ActivityType != nil {
		a.ActivityType = *req.ActivityType
	}
	if req.DurationMin != nil {
		a.DurationMin = *req.DurationMin
	}
	if req.Distance != nil {
		a.Distance = req.Distance
	}
	if req.CaloriesBurned != nil {
		a.CaloriesBurned = req.CaloriesBurned
	}
	if req.Notes != nil {
		a.Notes = req.Notes
	}
	if req.Date != nil {
		a.Date = req.Date.Time()
	}

	if err := validate(a.ActivityType, a.DurationMin, a.Distance, a.CaloriesBurned); err != nil {
		return nil, err
	}

	if err := s.db.Save(&a).Error; err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	s.broker.Publish(scope.Topic(Collection, userID))
	return &a, nil
}

// Delete removes an activity the user owns.
func (s *Service) Delete(userID, id uuid.UUID) error {
	result := s.db.Scopes(scope.ForUser(userID)).Delete(&ExtendedActivity{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.broker.Publish(scope.Topic(Collection, userID))
	return nil
}

// WeeklyStats sums the user's activities over the trailing 7 days. Duration
// keeps one decimal place and calories round to the nearest whole number.
func (s *Service) WeeklyStats(userID uuid.UUID, now time.Time) (*WeeklyStats, error) {
	list, err := s.ListByRange(userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, err
	}

	sum := aggregate.Summarize(Records(list))
	return &WeeklyStats{
		TotalActivities: sum.Count,
		TotalDuration:   math.Round(sum.TotalDuration*10) / 10,
		TotalCalories:   math.Round(sum.TotalCalories),
	}, nil
}

// Records converts stored rows into the aggregation input shape. Absent
// optional metrics become zero, which the aggregators treat as "not present".
func Records(list []ExtendedActivity) []aggregate.ActivityRecord {
	out := make([]aggregate.ActivityRecord, 0, len(list))
	for _, a := range list {
		r := aggregate.ActivityRecord{
			Type:        a.ActivityType,
			Date:        a.Date,
			DurationMin: a.DurationMin,
		}
		if a.Distance != nil {
			r.DistanceKm = *a.Distance
		}
		if a.CaloriesBurned != nil {
			r.Calories = *a.CaloriesBurned
		}
		out = append(out, r)
	}
	return out
}

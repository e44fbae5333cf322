package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/aggregate"
	"github.com/mybenefit/fitness-backend/internal/apps/activity"
	"github.com/mybenefit/fitness-backend/internal/apps/goals"
	"github.com/mybenefit/fitness-backend/internal/models"
	"github.com/mybenefit/fitness-backend/internal/scope"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"github.com/mybenefit/fitness-backend/internal/timeutil"
	"gorm.io/gorm"
)

const (
	MetricsCollection  = "dailyMetrics"
	SettingsCollection = "settings"
)

var (
	ErrInvalidTheme       = errors.New("theme must be light or dark")
	ErrInvalidStepsTarget = errors.New("daily steps target must be positive")
	ErrInvalidPeriod      = errors.New("period must be weekly or monthly")
)

type Service struct {
	db     *gorm.DB
	broker *subscription.Broker
}

func NewService(db *gorm.DB, broker *subscription.Broker) *Service {
	return &Service{db: db, broker: broker}
}

// UpsertDaily writes the metrics row for the request's calendar day, updating
// in place when the day already exists.
func (s *Service) UpsertDaily(userID uuid.UUID, req *UpsertMetricsRequest) (*DailyMetrics, error) {
	day := timeutil.StartOfDay(req.Date.Time())

	var m DailyMetrics
	err := s.db.Scopes(scope.ForUser(userID)).
		Where("date = ?", day).First(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		m = DailyMetrics{ID: uuid.New(), UserID: userID, Date: day}
	case err != nil:
		return nil, fmt.Errorf("failed to load daily metrics: %w", err)
	}

	m.Steps = req.Steps
	m.CaloriesBurned = req.CaloriesBurned
	m.Distance = req.Distance
	m.ActiveMinutes = req.ActiveMinutes

	if err := s.db.Save(&m).Error; err != nil {
		return nil, fmt.Errorf("failed to save daily metrics: %w", err)
	}
	s.broker.Publish(scope.Topic(MetricsCollection, userID))
	return &m, nil
}

// GetDaily returns the metrics row for one calendar day, or nil when the day
// was never tracked.
func (s *Service) GetDaily(userID uuid.UUID, day time.Time) (*DailyMetrics, error) {
	var m DailyMetrics
	err := s.db.Scopes(scope.ForUser(userID)).
		Where("date = ?", timeutil.StartOfDay(day)).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load daily metrics: %w", err)
	}
	return &m, nil
}

// Settings returns the user's settings, creating the defaults on first read.
func (s *Service) Settings(userID uuid.UUID) (*UserSettings, error) {
	var settings UserSettings
	err := s.db.Scopes(scope.ForUser(userID)).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.SeedDefaults(s.db, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

// SeedDefaults writes the default settings row. The identity lifecycle calls
// this inside the registration transaction, so the db handle is a parameter.
func (s *Service) SeedDefaults(db *gorm.DB, userID uuid.UUID) (*UserSettings, error) {
	settings := UserSettings{
		ID:               uuid.New(),
		UserID:           userID,
		DailyStepsTarget: DefaultStepsTarget,
		Theme:            DefaultTheme,
		Notifications:    true,
	}
	if err := db.Create(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}
	return &settings, nil
}

// UpdateSettings applies the provided fields to the singleton.
func (s *Service) UpdateSettings(userID uuid.UUID, req *UpdateSettingsRequest) (*UserSettings, error) {
	settings, err := s.Settings(userID)
	if err != nil {
		return nil, err
	}

	if req.DailyStepsTarget != nil {
		if *req.DailyStepsTarget <= 0 {
			return nil, ErrInvalidStepsTarget
		}
		settings.DailyStepsTarget = *req.DailyStepsTarget
	}
	if req.Theme != nil {
		if *req.Theme != "light" && *req.Theme != "dark" {
			return nil, ErrInvalidTheme
		}
		settings.Theme = *req.Theme
	}
	if req.Notifications != nil {
		settings.Notifications = *req.Notifications
	}

	if err := s.db.Save(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	s.broker.Publish(scope.Topic(SettingsCollection, userID))
	return settings, nil
}

// SettingsList adapts the singleton into the list shape the subscription
// bridge delivers.
func (s *Service) SettingsList(userID uuid.UUID) ([]UserSettings, error) {
	settings, err := s.Settings(userID)
	if err != nil {
		return nil, err
	}
	return []UserSettings{*settings}, nil
}

// Dashboard assembles the single-call view the home screen renders.
func (s *Service) Dashboard(userID uuid.UUID, now time.Time) (*Payload, error) {
	today, err := s.GetDaily(userID, now)
	if err != nil {
		return nil, err
	}

	weekStart, weekEnd := timeutil.WeekRange(now)
	var weekActivities []activity.ExtendedActivity
	if err := s.db.Scopes(scope.ForUser(userID)).
		Where("date >= ? AND date <= ?", weekStart, weekEnd).
		Find(&weekActivities).Error; err != nil {
		return nil, fmt.Errorf("failed to load week activities: %w", err)
	}

	var recent []activity.ExtendedActivity
	if err := s.db.Scopes(scope.ForUser(userID)).
		Order("date DESC").Limit(10).Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent activities: %w", err)
	}

	var goalList []goals.Goal
	if err := s.db.Scopes(scope.ForUser(userID)).
		Order("target_date DESC").Find(&goalList).Error; err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	settings, err := s.Settings(userID)
	if err != nil {
		return nil, err
	}

	return &Payload{
		Today:            today,
		WeekSeries:       aggregate.DailySeries(activity.Records(weekActivities), weekStart, weekEnd),
		RecentActivities: recent,
		Goals:            goalList,
		Settings:         settings,
	}, nil
}

// Progress returns the rollup snapshots of one period type, newest first.
func (s *Service) Progress(userID uuid.UUID, periodType string) ([]models.ProgressSnapshot, error) {
	if periodType != "weekly" && periodType != "monthly" {
		return nil, ErrInvalidPeriod
	}
	var out []models.ProgressSnapshot
	err := s.db.Scopes(scope.ForUser(userID)).
		Where("type = ?", periodType).
		Order("start_date DESC").Find(&out).Error
	return out, err
}

package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/aggregate"
	"github.com/mybenefit/fitness-backend/internal/apps/activity"
	"github.com/mybenefit/fitness-backend/internal/apps/goals"
	"github.com/mybenefit/fitness-backend/internal/timeutil"
)

// DailyMetrics is one tracked day per user. The user+date pair is unique, so
// writing the same day twice updates in place.
type DailyMetrics struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_user_date" json:"user_id"`
	Date           time.Time `gorm:"not null;uniqueIndex:idx_daily_user_date" json:"date"`
	Steps          int       `json:"steps"`
	CaloriesBurned float64   `json:"calories_burned"`
	Distance       float64   `json:"distance"`
	ActiveMinutes  float64   `json:"active_minutes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSettings is the per-user singleton of app preferences.
type UserSettings struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DailyStepsTarget int       `gorm:"not null" json:"daily_steps_target"`
	Theme            string    `gorm:"size:20;not null" json:"theme"`
	Notifications    bool      `json:"notifications"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const (
	DefaultStepsTarget = 10000
	DefaultTheme       = "light"
)

// --- DTOs ---

type UpsertMetricsRequest struct {
	Date           timeutil.Timestamp `json:"date"`
	Steps          int                `json:"steps"`
	CaloriesBurned float64            `json:"calories_burned"`
	Distance       float64            `json:"distance"`
	ActiveMinutes  float64            `json:"active_minutes"`
}

type UpdateSettingsRequest struct {
	DailyStepsTarget *int    `json:"daily_steps_target,omitempty"`
	Theme            *string `json:"theme,omitempty"`
	Notifications    *bool   `json:"notifications,omitempty"`
}

// Payload is the one-call dashboard view: today's metrics, the current week
// as a zero-filled series, the most recent activities, goals and settings.
type Payload struct {
	Today            *DailyMetrics               `json:"today"`
	WeekSeries       []aggregate.SeriesPoint     `json:"week_series"`
	RecentActivities []activity.ExtendedActivity `json:"recent_activities"`
	Goals            []goals.Goal                `json:"goals"`
	Settings         *UserSettings               `json:"settings"`
}

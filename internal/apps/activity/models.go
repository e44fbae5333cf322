package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/timeutil"
)

// Activity is the legacy simple daily record.
type Activity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Date           time.Time `gorm:"not null;index" json:"date"`
	Steps          int       `json:"steps"`
	CaloriesBurned float64   `json:"calories_burned"`
	Distance       float64   `json:"distance"`
	ActiveMinutes  float64   `json:"active_minutes"`
	CreatedAt      time.Time `json:"created_at"`
}

// ExtendedActivity is the primary activity record used by logging. Optional
// metrics stay nil when the user did not supply them; the row never stores a
// fabricated zero for an absent value.
type ExtendedActivity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ActivityType   string    `gorm:"size:50;not null" json:"activity_type"`
	DurationMin    float64   `gorm:"not null" json:"duration_min"`
	Distance       *float64  `json:"distance,omitempty"`
	CaloriesBurned *float64  `json:"calories_burned,omitempty"`
	Notes          *string   `gorm:"type:text" json:"notes,omitempty"`
	Date           time.Time `gorm:"not null;index" json:"date"`
	Timestamp      time.Time `gorm:"not null" json:"timestamp"` // server-set at write
	UpdatedAt      time.Time `json:"updated_at"`
}

var ActivityTypes = []string{
	"running", "walking", "cycling", "swimming", "hiking",
	"yoga", "weightlifting", "cardio", "sports", "other",
}

// --- DTOs ---

type CreateSimpleRequest struct {
	Date           timeutil.Timestamp `json:"date"`
	Steps          int                `json:"steps"`
	CaloriesBurned float64            `json:"calories_burned"`
	Distance       float64            `json:"distance"`
	ActiveMinutes  float64            `json:"active_minutes"`
}

type CreateRequest struct {
	ActivityType   string             `json:"activity_type"`
	DurationMin    float64            `json:"duration_min"`
	Distance       *float64           `json:"distance,omitempty"`
	CaloriesBurned *float64           `json:"calories_burned,omitempty"`
	Notes          *string            `json:"notes,omitempty"`
	Date           timeutil.Timestamp `json:"date"`
}

type UpdateRequest struct {
	ActivityType   *string             `json:"activity_type,omitempty"`
	DurationMin    *float64            `json:"duration_min,omitempty"`
	Distance       *float64            `json:"distance,omitempty"`
	CaloriesBurned *float64            `json:"calories_burned,omitempty"`
	Notes          *string             `json:"notes,omitempty"`
	Date           *timeutil.Timestamp `json:"date,omitempty"`
}

// WeeklyStats is the last-7-days card: duration keeps one decimal, calories
// round to whole numbers.
type WeeklyStats struct {
	TotalActivities int     `json:"total_activities"`
	TotalDuration   float64 `json:"total_duration"`
	TotalCalories   float64 `json:"total_calories"`
}

type ListResponse struct {
	Activities []ExtendedActivity `json:"activities"`
	Total      int                `json:"total"`
}

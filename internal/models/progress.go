package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressSnapshot is a periodic aggregation written by the scheduled rollup
// jobs, one per user per period.
type ProgressSnapshot struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type          string    `gorm:"size:10;not null;index" json:"type"` // weekly or monthly
	StartDate     time.Time `gorm:"not null" json:"start_date"`
	EndDate       time.Time `gorm:"not null" json:"end_date"`
	TotalSteps    float64   `json:"total_steps"`
	TotalCalories float64   `json:"total_calories"`
	TotalDistance float64   `json:"total_distance"`
	CreatedAt     time.Time `json:"created_at"`
}

// WeeklyMetrics is the weekly summary document. DocKey reproduces the
// userId_weekStart addressing scheme so re-running a week overwrites
// instead of duplicating.
type WeeklyMetrics struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocKey             string    `gorm:"size:80;not null;uniqueIndex" json:"doc_key"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	WeekStart          time.Time `gorm:"not null" json:"week_start"`
	WeekEnd            time.Time `gorm:"not null" json:"week_end"`
	TotalSteps         float64   `json:"total_steps"`
	TotalCalories      float64   `json:"total_calories"`
	TotalActiveMinutes float64   `json:"total_active_minutes"`
	TotalDistance      float64   `json:"total_distance"`
	ActivitiesCount    int       `json:"activities_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// MonthlyMetrics mirrors WeeklyMetrics for the monthly rollup.
type MonthlyMetrics struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocKey             string    `gorm:"size:80;not null;uniqueIndex" json:"doc_key"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	MonthStart         time.Time `gorm:"not null" json:"month_start"`
	MonthEnd           time.Time `gorm:"not null" json:"month_end"`
	TotalSteps         float64   `json:"total_steps"`
	TotalCalories      float64   `json:"total_calories"`
	TotalActiveMinutes float64   `json:"total_active_minutes"`
	TotalDistance      float64   `json:"total_distance"`
	ActivitiesCount    int       `json:"activities_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

package goals

import (
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/timeutil"
)

// Goal tracks progress toward a numeric target. The achieved column is
// derived from current and target and recomputed on every write that touches
// either field; it is never left stale.
type Goal struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       string    `gorm:"size:20;not null" json:"type"`
	Target     float64   `gorm:"not null" json:"target"`
	Current    float64   `gorm:"not null" json:"current"`
	StartDate  time.Time `gorm:"not null" json:"start_date"`
	TargetDate time.Time `gorm:"not null" json:"target_date"`
	Achieved   bool      `gorm:"not null;default:false" json:"achieved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var GoalTypes = []string{"steps", "calories", "weight", "distance"}

// --- DTOs ---

type CreateRequest struct {
	Type       string             `json:"type"`
	Target     float64            `json:"target"`
	Current    float64            `json:"current"`
	StartDate  timeutil.Timestamp `json:"start_date"`
	TargetDate timeutil.Timestamp `json:"target_date"`
}

type UpdateRequest struct {
	Type       *string             `json:"type,omitempty"`
	Target     *float64            `json:"target,omitempty"`
	Current    *float64            `json:"current,omitempty"`
	StartDate  *timeutil.Timestamp `json:"start_date,omitempty"`
	TargetDate *timeutil.Timestamp `json:"target_date,omitempty"`
}

// GoalStatus is the render-side view: progress is clamped here and only here.
type GoalStatus struct {
	Goal        Goal    `json:"goal"`
	ProgressPct float64 `json:"progress_pct"`
	Status      string  `json:"status"` // achieved, on-track, behind, overdue
}

type ExportResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	ExportedAt string    `json:"exported_at"`
	Goals      []Goal    `json:"goals"`
}

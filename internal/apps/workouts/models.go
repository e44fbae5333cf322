package workouts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/timeutil"
	"gorm.io/datatypes"
)

// Workout is a named training session with an ordered exercise list stored as
// a JSONB document.
type Workout struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Date        time.Time      `gorm:"not null;index" json:"date"`
	DurationMin float64        `gorm:"not null" json:"duration_min"`
	Exercises   datatypes.JSON `gorm:"type:jsonb" json:"exercises"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Exercise is one entry of a workout. Every numeric field is optional: nil
// means the user never supplied it, and the stored document carries no key at
// all for it.
type Exercise struct {
	Name        string   `json:"name"`
	Sets        *int     `json:"sets,omitempty"`
	Reps        *int     `json:"reps,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	DurationMin *float64 `json:"duration_min,omitempty"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
}

// Document returns the map that is actually persisted for one exercise:
// only keys the user supplied, never an explicit null. The omission is made
// here, in one place, instead of relying on marshaling behaviour.
func (e Exercise) Document() map[string]interface{} {
	doc := map[string]interface{}{"name": e.Name}
	if e.Sets != nil {
		doc["sets"] = *e.Sets
	}
	if e.Reps != nil {
		doc["reps"] = *e.Reps
	}
	if e.Weight != nil {
		doc["weight"] = *e.Weight
	}
	if e.DurationMin != nil {
		doc["duration_min"] = *e.DurationMin
	}
	if e.DistanceKm != nil {
		doc["distance_km"] = *e.DistanceKm
	}
	return doc
}

// MarshalExercises converts validated exercises into the JSONB column value,
// routing every entry through Document.
func MarshalExercises(list []Exercise) (datatypes.JSON, error) {
	docs := make([]map[string]interface{}, 0, len(list))
	for _, e := range list {
		docs = append(docs, e.Document())
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode exercises: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// ParseExercises decodes the stored JSONB column back into typed entries.
func ParseExercises(raw datatypes.JSON) ([]Exercise, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []Exercise
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode exercises: %w", err)
	}
	return out, nil
}

// --- DTOs ---

type CreateRequest struct {
	Name        string             `json:"name"`
	Date        timeutil.Timestamp `json:"date"`
	DurationMin float64            `json:"duration_min"`
	Exercises   []Exercise         `json:"exercises"`
}

type UpdateRequest struct {
	Name        *string             `json:"name,omitempty"`
	Date        *timeutil.Timestamp `json:"date,omitempty"`
	DurationMin *float64            `json:"duration_min,omitempty"`
	Exercises   []Exercise          `json:"exercises,omitempty"`
}

type ListResponse struct {
	Workouts []Workout `json:"workouts"`
	Total    int       `json:"total"`
}

package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the per-user singleton of personal details. Height is stored in
// cm and weight in kg.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	FullName  string    `gorm:"size:100" json:"full_name"`
	Email     string    `gorm:"size:255" json:"email"`
	Age       *int      `json:"age,omitempty"`
	Height    *float64  `json:"height,omitempty"`
	Weight    *float64  `json:"weight,omitempty"`
	Gender    string    `gorm:"size:20" json:"gender"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Location  string    `gorm:"size:100" json:"location"`
	AvatarURL string    `gorm:"size:500" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- DTOs ---

type UpdateRequest struct {
	FullName  *string  `json:"full_name,omitempty"`
	Age       *int     `json:"age,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Gender    *string  `json:"gender,omitempty"`
	Bio       *string  `json:"bio,omitempty"`
	Location  *string  `json:"location,omitempty"`
	AvatarURL *string  `json:"avatar_url,omitempty"`
}

// BMIResponse reports the computed index with its category. Available is
// false when height or weight is missing from the profile.
type BMIResponse struct {
	Available bool    `json:"available"`
	BMI       float64 `json:"bmi,omitempty"`
	Category  string  `json:"category,omitempty"`
}

package profile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/aggregate"
	"github.com/mybenefit/fitness-backend/internal/scope"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"gorm.io/gorm"
)

const Collection = "profile"

var (
	ErrNotFound       = errors.New("profile not found")
	ErrInvalidMeasure = errors.New("age, height and weight must be positive when provided")
)

type Service struct {
	db     *gorm.DB
	broker *subscription.Broker
}

func NewService(db *gorm.DB, broker *subscription.Broker) *Service {
	return &Service{db: db, broker: broker}
}

// Seed creates the profile row at registration with the identity's details.
// Runs inside the registration transaction, so the db handle is a parameter.
func (s *Service) Seed(db *gorm.DB, userID uuid.UUID, email, displayName, photoURL string) (*Profile, error) {
	p := Profile{
		ID:        uuid.New(),
		UserID:    userID,
		FullName:  displayName,
		Email:     email,
		AvatarURL: photoURL,
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to seed profile: %w", err)
	}
	return &p, nil
}

// Get returns the user's profile.
func (s *Service) Get(userID uuid.UUID) (*Profile, error) {
	var p Profile
	if err := s.db.Scopes(scope.ForUser(userID)).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &p, nil
}

// Update applies the provided fields to the profile.
func (s *Service) Update(userID uuid.UUID, req *UpdateRequest) (*Profile, error) {
	p, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if req.Age != nil && *req.Age <= 0 {
		return nil, ErrInvalidMeasure
	}
	if req.Height != nil && *req.Height <= 0 {
		return nil, ErrInvalidMeasure
	}
	if req.Weight != nil && *req.Weight <= 0 {
		return nil, ErrInvalidMeasure
	}

	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Age != nil {
		p.Age = req.Age
	}
	if req.Height != nil {
		p.Height = req.Height
	}
	if req.Weight != nil {
		p.Weight = req.Weight
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.AvatarURL != nil {
		p.AvatarURL = *req.AvatarURL
	}

	if err := s.db.Save(p).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.broker.Publish(scope.Topic(Collection, userID))
	return p, nil
}

// BMI computes the index from the stored height and weight.
func (s *Service) BMI(userID uuid.UUID) (*BMIResponse, error) {
	p, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if p.Height == nil || p.Weight == nil {
		return &BMIResponse{Available: false}, nil
	}
	bmi, category, ok := aggregate.BMI(*p.Height, *p.Weight)
	if !ok {
		return &BMIResponse{Available: false}, nil
	}
	return &BMIResponse{Available: true, BMI: bmi, Category: category}, nil
}

package workouts

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/scope"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"gorm.io/gorm"
)

const Collection = "workouts"

var (
	ErrInvalidName     = errors.New("workout name is required")
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
	ErrInvalidExercise = errors.New("every exercise needs a name and positive metrics when provided")
	ErrNotFound        = errors.New("workout not found")
)

type Service struct {
	db     *gorm.DB
	broker *subscription.Broker
}

func NewService(db *gorm.DB, broker *subscription.Broker) *Service {
	return &Service{db: db, broker: broker}
}

func validateExercises(list []Exercise) error {
	for _, e := range list {
		if e.Name == "" {
			return ErrInvalidExercise
		}
		if e.Sets != nil && *e.Sets <= 0 {
			return ErrInvalidExercise
		}
		if e.Reps != nil && *e.Reps <= 0 {
			return ErrInvalidExercise
		}
		if e.Weight != nil && *e.Weight <= 0 {
			return ErrInvalidExercise
		}
		if e.DurationMin != nil && *e.DurationMin <= 0 {
			return ErrInvalidExercise
		}
		if e.DistanceKm != nil && *e.DistanceKm <= 0 {
			return ErrInvalidExercise
		}
	}
	return nil
}

// Create records a workout with its exercise document.
func (s *Service) Create(userID uuid.UUID, req *CreateRequest) (*Workout, error) {
	if req.Name == "" {
		return nil, ErrInvalidName
	}
	if req.DurationMin <= 0 {
		return nil, ErrInvalidDuration
	}
	if err := validateExercises(req.Exercises); err != nil {
		return nil, err
	}

	exercises, err := MarshalExercises(req.Exercises)
	if err != nil {
		return nil, err
	}

	w := Workout{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		Date:        req.Date.Time(),
		DurationMin: req.DurationMin,
		Exercises:   exercises,
	}
	if err := s.db.Create(&w).Error; err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}
	s.broker.Publish(scope.Topic(Collection, userID))
	return &w, nil
}

// List returns all of the user's workouts, newest first.
func (s *Service) List(userID uuid.UUID) ([]Workout, error) {
	var out []Workout
	err := s.db.Scopes(scope.ForUser(userID)).
		Order("date DESC").Find(&out).Error
	return out, err
}

// Get returns a single workout the user owns.
func (s *Service) Get(userID, id uuid.UUID) (*Workout, error) {
	var w Workout
	if err := s.db.Scopes(scope.ForUser(userID)).First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load workout: %w", err)
	}
	return &w, nil
}

// Update applies the provided fields to a workout the user owns. A non-nil
// exercises slice replaces the whole document.
func (s *Service) Update(userID, id uuid.UUID, req *UpdateRequest) (*Workout, error) {
	w, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrInvalidName
		}
		w.Name = *req.Name
	}
	if req.Date != nil {
		w.Date = req.Date.Time()
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			return nil, ErrInvalidDuration
		}
		w.DurationMin = *req.DurationMin
	}
	if req.Exercises != nil {
		if err := validateExercises(req.Exercises); err != nil {
			return nil, err
		}
		exercises, err := MarshalExercises(req.Exercises)
		if err != nil {
			return nil, err
		}
		w.Exercises = exercises
	}

	if err := s.db.Save(w).Error; err != nil {
		return nil, fmt.Errorf("failed to update workout: %w", err)
	}
	s.broker.Publish(scope.Topic(Collection, userID))
	return w, nil
}

// Delete removes a workout the user owns.
func (s *Service) Delete(userID, id uuid.UUID) error {
	result := s.db.Scopes(scope.ForUser(userID)).Delete(&Workout{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete workout: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.broker.Publish(scope.Topic(Collection, userID))
	return nil
}

package goals

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

// Collection is the topic name the real-time bridge uses for goals.
const Collection = "goals"

var (
	ErrInvalidGoalType = errors.New("unknown goal type")
	ErrInvalidTarget   = errors.New("target must be a positive number")
	ErrNotFound        = errors.New("goal not found")
)

type Service struct {
	db     *gorm.DB
	broker *subscription.Broker
}

func NewService(db *gorm.DB, broker *subscription.Broker) *Service {
	return &Service{db: db, broker: broker}
}

func validGoalType(t string) bool {
	for _, g := range GoalTypes {
		if g == t {
			return true
		}
	}
	return false
}

// Create stores a new goal. Achieved is computed here, in the one write path,
// never by callers.
func (s *Service) Create(userID uuid.UUID, req *CreateRequest) (*Goal, error) {
	if !validGoalType(req.Type) {
		return nil, ErrInvalidGoalType
	}
	if req.Target <= 0 {
		return nil, ErrInvalidTarget
	}

	g := Goal{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       req.Type,
		Target:     req.Target,
		Current:    req.Current,
		StartDate:  req.StartDate.Time(),
		TargetDate: req.TargetDate.Time(),
		Achieved:   aggregate.GoalAchieved(req.Current, req.Target),
	}
	if err := s.db.Create(&g).Error; err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	s.broker.Publish(scope.Topic(Collection, userID))
	return &g, nil
}

// List returns the user's goals ordered by target date, optionally filtered
// by achieved state.
func (s *Service) List(userID uuid.UUID, achieved *bool) ([]Goal, error) {
	q := s.db.Scopes(scope.ForUser(userID)).Order("target_date DESC")
	if achieved != nil {
		q = q.Where("achieved = ?", *achieved)
	}
	var out []Goal
	err := q.Find(&out).Error
	return out, err
}

// Update applies changes to a goal the user owns, recomputing achieved
// whenever current or target moved.
func (s *Service) Update(userID, id uuid.UUID, req *UpdateRequest) (*Goal, error) {
	var g Goal
	if err := s.db.Scopes(scope.ForUser(userID)).First(&g, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	if req.Type != nil {
		if !validGoalType(*req.Type) {
			return nil, ErrInvalidGoalType
		}
		g.Type = *req.Type
	}
	if req.Target != nil {
		if *req.Target <= 0 {
			return nil, ErrInvalidTarget
		}
		g.Target = *req.Target
	}
	if req.Current != nil {
		g.Current = *req.Current
	}
	if req.StartDate != nil {
		g.StartDate = req.StartDate.Time()
	}
	if req.TargetDate != nil {
		g.TargetDate = req.TargetDate.Time()
	}

	g.Achieved = aggregate.GoalAchieved(g.Current, g.Target)

	if err := s.db.Save(&g).Error; err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	s.broker.Publish(scope.Topic(Collection, userID))
	return &g, nil
}

// Delete removes a goal the user owns.
func (s *Service) Delete(userID, id uuid.UUID) error {
	result := s.db.Scopes(scope.ForUser(userID)).Delete(&Goal{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete goal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.broker.Publish(scope.Topic(Collection, userID))
	return nil
}

// Status builds the render-side view of a goal: progress clamped to 100 and
// a coarse lifecycle label.
func Status(g Goal, now time.Time) GoalStatus {
	var pct float64
	if g.Target != 0 {
		pct = math.Min(g.Current/g.Target*100, 100)
	}

	status := "in-progress"
	switch {
	case g.Achieved:
		status = "achieved"
	case g.TargetDate.Before(now):
		status = "overdue"
	}

	return GoalStatus{Goal: g, ProgressPct: pct, Status: status}
}

// Export assembles the downloadable snapshot of every goal the user has.
func (s *Service) Export(userID uuid.UUID, now time.Time) (*ExportResponse, error) {
	list, err := s.List(userID, nil)
	if err != nil {
		return nil, err
	}
	return &ExportResponse{
		UserID:     userID,
		ExportedAt: now.Format("2006-01-02"),
		Goals:      list,
	}, nil
}

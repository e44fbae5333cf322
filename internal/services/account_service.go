package services

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/apps/activity"
	"github.com/mybenefit/fitness-backend/internal/apps/dashboard"
	"github.com/mybenefit/fitness-backend/internal/apps/goals"
	"github.com/mybenefit/fitness-backend/internal/apps/profile"
	"github.com/mybenefit/fitness-backend/internal/apps/workouts"
	"github.com/mybenefit/fitness-backend/internal/models"
	"github.com/mybenefit/fitness-backend/internal/scope"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"gorm.io/gorm"
)

// userCollections is the fixed fan-out list: every table that carries a
// user_id and must be emptied when the owning identity goes away. Order is
// not significant; the whole list commits or none of it does.
var userCollections = []struct {
	topic string
	model interface{}
}{
	{profile.Collection, &profile.Profile{}},
	{"activities", &activity.Activity{}},
	{activity.Collection, &activity.ExtendedActivity{}},
	{goals.Collection, &goals.Goal{}},
	{workouts.Collection, &workouts.Workout{}},
	{"progress", &models.ProgressSnapshot{}},
	{dashboard.MetricsCollection, &dashboard.DailyMetrics{}},
	{"weeklyMetrics", &models.WeeklyMetrics{}},
	{"monthlyMetrics", &models.MonthlyMetrics{}},
	{dashboard.SettingsCollection, &dashboard.UserSettings{}},
}

// AccountService removes every trace of a user's data across all feature
// tables in a single transaction.
type AccountService struct {
	db     *gorm.DB
	broker *subscription.Broker
}

func NewAccountService(db *gorm.DB, broker *subscription.Broker) *AccountService {
	return &AccountService{db: db, broker: broker}
}

// DeleteAllUserData purges the user's rows from every collection atomically
// and notifies subscribers once the transaction commits. Running it again for
// the same user deletes nothing and succeeds.
func (s *AccountService) DeleteAllUserData(userID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.Purge(tx, userID)
	})
	if err != nil {
		return err
	}
	s.Notify(userID)
	return nil
}

// Purge runs the fan-out deletes on the given transaction handle so the
// identity deletion can fold it into its own transaction.
func (s *AccountService) Purge(tx *gorm.DB, userID uuid.UUID) error {
	var total int64
	for _, c := range userCollections {
		result := tx.Scopes(scope.ForUser(userID)).Delete(c.model)
		if result.Error != nil {
			return fmt.Errorf("failed to purge %s: %w", c.topic, result.Error)
		}
		total += result.RowsAffected
	}
	slog.Info("user data purged", "user_id", userID, "rows", total)
	return nil
}

// Notify publishes a change on every collection topic the purge touched.
func (s *AccountService) Notify(userID uuid.UUID) {
	for _, c := range userCollections {
		s.broker.Publish(scope.Topic(c.topic, userID))
	}
}

package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/aggregate"
	"github.com/mybenefit/fitness-backend/internal/apps/activity"
	"github.com/mybenefit/fitness-backend/internal/apps/profile"
	"github.com/mybenefit/fitness-backend/internal/config"
	"github.com/mybenefit/fitness-backend/internal/models"
	"github.com/mybenefit/fitness-backend/internal/scope"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"github.com/mybenefit/fitness-backend/internal/timeutil"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scheduler runs the periodic rollup jobs: a weekly summary every Sunday
// midnight and a monthly one on the first of each month.
type Scheduler struct {
	db     *gorm.DB
	broker *subscription.Broker
	cfg    *config.Config
	cron   *cron.Cron
}

func New(db *gorm.DB, broker *subscription.Broker, cfg *config.Config) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.RollupTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid rollup timezone %q: %w", cfg.RollupTimezone, err)
	}

	s := &Scheduler{
		db:     db,
		broker: broker,
		cfg:    cfg,
		cron:   cron.New(cron.WithLocation(loc)),
	}

	if _, err := s.cron.AddFunc("0 0 * * 0", func() { s.RunWeekly(time.Now().In(loc)) }); err != nil {
		return nil, fmt.Errorf("failed to schedule weekly rollup: %w", err)
	}
	if _, err := s.cron.AddFunc("0 0 1 * *", func() { s.RunMonthly(time.Now().In(loc)) }); err != nil {
		return nil, fmt.Errorf("failed to schedule monthly rollup: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("rollup scheduler started", "timezone", s.cfg.RollupTimezone)
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// userIDs lists every user with a profile, the population the rollups cover.
func (s *Scheduler) userIDs() ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.Model(&profile.Profile{}).Pluck("user_id", &ids).Error
	return ids, err
}

func (s *Scheduler) totals(userID uuid.UUID, start, end time.Time) (aggregate.WeekTotals, error) {
	var list []activity.ExtendedActivity
	err := s.db.Scopes(scope.ForUser(userID)).
		Where("date >= ? AND date <= ?", start, end).
		Find(&list).Error
	if err != nil {
		return aggregate.WeekTotals{}, err
	}
	return aggregate.SumWeek(activity.Records(list), start, end), nil
}

// RunWeekly summarizes the week that ended before now for every user. A
// failing user is logged and skipped; the sweep always finishes.
func (s *Scheduler) RunWeekly(now time.Time) {
	weekStart, weekEnd := timeutil.WeekRange(now.AddDate(0, 0, -7))

	ids, err := s.userIDs()
	if err != nil {
		slog.Error("weekly rollup failed to list users", "error", err)
		return
	}

	for _, userID := range ids {
		if err := s.rollupWeek(userID, weekStart, weekEnd); err != nil {
			slog.Error("weekly rollup failed", "user_id", userID, "error", err)
			continue
		}
		s.broker.Publish(scope.Topic("weeklyMetrics", userID))
		s.broker.Publish(scope.Topic("progress", userID))
	}
	slog.Info("weekly rollup complete", "users", len(ids), "week_start", weekStart.Format("2006-01-02"))
}

func (s *Scheduler) rollupWeek(userID uuid.UUID, weekStart, weekEnd time.Time) error {
	t, err := s.totals(userID, weekStart, weekEnd)
	if err != nil {
		return err
	}

	doc := models.WeeklyMetrics{
		ID:                 uuid.New(),
		DocKey:             fmt.Sprintf("%s_%s", userID, weekStart.Format("2006-01-02")),
		UserID:             userID,
		WeekStart:          weekStart,
		WeekEnd:            weekEnd,
		TotalSteps:         t.Steps,
		TotalCalories:      t.Calories,
		TotalActiveMinutes: t.ActiveMinutes,
		TotalDistance:      t.Distance,
		ActivitiesCount:    t.Activities,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_steps", "total_calories", "total_active_minutes",
			"total_distance", "activities_count", "updated_at",
		}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("failed to upsert weekly metrics: %w", err)
	}

	snapshot := models.ProgressSnapshot{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          "weekly",
		StartDate:     weekStart,
		EndDate:       weekEnd,
		TotalSteps:    t.Steps,
		TotalCalories: t.Calories,
		TotalDistance: t.Distance,
	}
	if err := s.db.Create(&snapshot).Error; err != nil {
		return fmt.Errorf("failed to write progress snapshot: %w", err)
	}
	return nil
}

// RunMonthly mirrors RunWeekly over the previous calendar month.
func (s *Scheduler) RunMonthly(now time.Time) {
	monthStart, monthEnd := timeutil.MonthRange(now.AddDate(0, -1, 0))

	ids, err := s.userIDs()
	if err != nil {
		slog.Error("monthly rollup failed to list users", "error", err)
		return
	}

	for _, userID := range ids {
		if err := s.rollupMonth(userID, monthStart, monthEnd); err != nil {
			slog.Error("monthly rollup failed", "user_id", userID, "error", err)
			continue
		}
		s.broker.Publish(scope.Topic("monthlyMetrics", userID))
		s.broker.Publish(scope.Topic("progress", userID))
	}
	slog.Info("monthly rollup complete", "users", len(ids), "month_start", monthStart.Format("2006-01"))
}

func (s *Scheduler) rollupMonth(userID uuid.UUID, monthStart, monthEnd time.Time) error {
	t, err := s.totals(userID, monthStart, monthEnd)
	if err != nil {
		return err
	}

	doc := models.MonthlyMetrics{
		ID:                 uuid.New(),
		DocKey:             fmt.Sprintf("%s_%s", userID, monthStart.Format("2006-01")),
		UserID:             userID,
		MonthStart:         monthStart,
		MonthEnd:           monthEnd,
		TotalSteps:         t.Steps,
		TotalCalories:      t.Calories,
		TotalActiveMinutes: t.ActiveMinutes,
		TotalDistance:      t.Distance,
		ActivitiesCount:    t.Activities,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_steps", "total_calories", "total_active_minutes",
			"total_distance", "activities_count", "updated_at",
		}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("failed to upsert monthly metrics: %w", err)
	}

	snapshot := models.ProgressSnapshot{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          "monthly",
		StartDate:     monthStart,
		EndDate:       monthEnd,
		TotalSteps:    t.Steps,
		TotalCalories: t.Calories,
		TotalDistance: t.Distance,
	}
	if err := s.db.Create(&snapshot).Error; err != nil {
		return fmt.Errorf("failed to write progress snapshot: %w", err)
	}
	return nil
}

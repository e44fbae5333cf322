package scheduler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/apps/activity"
	"github.com/mybenefit/fitness-backend/internal/apps/profile"
	"github.com/mybenefit/fitness-backend/internal/config"
	"github.com/mybenefit/fitness-backend/internal/models"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"github.com/mybenefit/fitness-backend/internal/timeutil"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testScheduler(t *testing.T) (*Scheduler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&profile.Profile{},
		&activity.ExtendedActivity{},
		&models.ProgressSnapshot{},
		&models.WeeklyMetrics{},
		&models.MonthlyMetrics{},
	))

	cfg := &config.Config{RollupTimezone: "America/New_York"}
	s, err := New(db, subscription.NewBroker(), cfg)
	require.NoError(t, err)
	return s, db
}

func seedWeek(t *testing.T, db *gorm.DB, userID uuid.UUID, weekStart time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&profile.Profile{
		ID: uuid.New(), UserID: userID, FullName: "Test", Email: "t@example.com",
	}).Error)

	distance := 5.0
	calories := 400.0
	for day := 0; day < 2; day++ {
		require.NoError(t, db.Create(&activity.ExtendedActivity{
			ID: uuid.New(), UserID: userID, ActivityType: "running",
			DurationMin: 30, Distance: &distance, CaloriesBurned: &calories,
			Date: weekStart.AddDate(0, 0, day), Timestamp: time.Now(),
		}).Error)
	}
}

func TestRunWeeklyWritesMetricsAndSnapshot(t *testing.T) {
	s, db := testScheduler(t)
	userID := uuid.New()

	now := time.Now()
	weekStart, _ := timeutil.WeekRange(now.AddDate(0, 0, -7))
	seedWeek(t, db, userID, weekStart)

	s.RunWeekly(now)

	var m models.WeeklyMetrics
	require.NoError(t, db.First(&m, "user_id = ?", userID).Error)
	require.Equal(t, userID.String()+"_"+weekStart.Format("2006-01-02"), m.DocKey)
	require.Equal(t, 2, m.ActivitiesCount)
	require.Equal(t, 60.0, m.TotalActiveMinutes)
	require.Equal(t, 800.0, m.TotalCalories)
	require.Equal(t, 10.0, m.TotalDistance)
	require.Equal(t, 10000.0, m.TotalSteps)

	var snap models.ProgressSnapshot
	require.NoError(t, db.First(&snap, "user_id = ? AND type = ?", userID, "weekly").Error)
	require.Equal(t, 800.0, snap.TotalCalories)
}

func TestRunWeeklyTwiceKeepsOneMetricsDoc(t *testing.T) {
	s, db := testScheduler(t)
	userID := uuid.New()

	now := time.Now()
	weekStart, _ := timeutil.WeekRange(now.AddDate(0, 0, -7))
	seedWeek(t, db, userID, weekStart)

	s.RunWeekly(now)
	s.RunWeekly(now)

	var count int64
	require.NoError(t, db.Model(&models.WeeklyMetrics{}).
		Where("user_id = ?", userID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestRunMonthlyWritesMetrics(t *testing.T) {
	s, db := testScheduler(t)
	userID := uuid.New()

	now := time.Now()
	monthStart, _ := timeutil.MonthRange(now.AddDate(0, -1, 0))
	seedWeek(t, db, userID, monthStart)

	s.RunMonthly(now)

	var m models.MonthlyMetrics
	require.NoError(t, db.First(&m, "user_id = ?", userID).Error)
	require.Equal(t, userID.String()+"_"+monthStart.Format("2006-01"), m.DocKey)
	require.Equal(t, 2, m.ActivitiesCount)

	var snap models.ProgressSnapshot
	require.NoError(t, db.First(&snap, "user_id = ? AND type = ?", userID, "monthly").Error)
	require.Equal(t, 10.0, snap.TotalDistance)
}

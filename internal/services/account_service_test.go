package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/apps/activity"
	"github.com/mybenefit/fitness-backend/internal/apps/dashboard"
	"github.com/mybenefit/fitness-backend/internal/apps/goals"
	"github.com/mybenefit/fitness-backend/internal/apps/profile"
	"github.com/mybenefit/fitness-backend/internal/apps/workouts"
	"github.com/mybenefit/fitness-backend/internal/models"
	"github.com/mybenefit/fitness-backend/internal/scope"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ProgressSnapshot{},
		&models.WeeklyMetrics{},
		&models.MonthlyMetrics{},
		&profile.Profile{},
		&activity.Activity{},
		&activity.ExtendedActivity{},
		&goals.Goal{},
		&workouts.Workout{},
		&dashboard.DailyMetrics{},
		&dashboard.UserSettings{},
	))
	return db
}

func seedUserData(t *testing.T, db *gorm.DB, userID uuid.UUID) {
	t.Helper()
	now := time.Now()

	require.NoError(t, db.Create(&profile.Profile{
		ID: uuid.New(), UserID: userID, FullName: "Test User", Email: "test@example.com",
	}).Error)
	require.NoError(t, db.Create(&activity.Activity{
		ID: uuid.New(), UserID: userID, Date: now, Steps: 5000,
	}).Error)
	require.NoError(t, db.Create(&activity.ExtendedActivity{
		ID: uuid.New(), UserID: userID, ActivityType: "running",
		DurationMin: 30, Date: now, Timestamp: now,
	}).Error)
	require.NoError(t, db.Create(&goals.Goal{
		ID: uuid.New(), UserID: userID, Type: "steps", Target: 10000,
		StartDate: now, TargetDate: now.AddDate(0, 0, 10),
	}).Error)
	require.NoError(t, db.Create(&workouts.Workout{
		ID: uuid.New(), UserID: userID, Name: "Leg day", Date: now, DurationMin: 45,
	}).Error)
	require.NoError(t, db.Create(&models.ProgressSnapshot{
		ID: uuid.New(), UserID: userID, Type: "weekly", StartDate: now, EndDate: now,
	}).Error)
	require.NoError(t, db.Create(&dashboard.DailyMetrics{
		ID: uuid.New(), UserID: userID, Date: now, Steps: 5000,
	}).Error)
	require.NoError(t, db.Create(&models.WeeklyMetrics{
		ID: uuid.New(), UserID: userID, DocKey: userID.String() + "_w",
		WeekStart: now, WeekEnd: now,
	}).Error)
	require.NoError(t, db.Create(&models.MonthlyMetrics{
		ID: uuid.New(), UserID: userID, DocKey: userID.String() + "_m",
		MonthStart: now, MonthEnd: now,
	}).Error)
	require.NoError(t, db.Create(&dashboard.UserSettings{
		ID: uuid.New(), UserID: userID, DailyStepsTarget: 10000, Theme: "light",
	}).Error)
}

func countAll(t *testing.T, db *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()
	var total int64
	for _, c := range userCollections {
		var n int64
		require.NoError(t, db.Model(c.model).Where("user_id = ?", userID).Count(&n).Error)
		total += n
	}
	return total
}

func TestDeleteAllUserDataRemovesEveryCollection(t *testing.T) {
	db := testDB(t)
	svc := NewAccountService(db, subscription.NewBroker())
	userID := uuid.New()
	seedUserData(t, db, userID)

	require.Equal(t, int64(10), countAll(t, db, userID))

	require.NoError(t, svc.DeleteAllUserData(userID))
	require.Equal(t, int64(0), countAll(t, db, userID))
}

func TestDeleteAllUserDataIsIdempotent(t *testing.T) {
	db := testDB(t)
	svc := NewAccountService(db, subscription.NewBroker())
	userID := uuid.New()
	seedUserData(t, db, userID)

	require.NoError(t, svc.DeleteAllUserData(userID))
	require.NoError(t, svc.DeleteAllUserData(userID))
	require.Equal(t, int64(0), countAll(t, db, userID))
}

func TestDeleteAllUserDataLeavesOtherUsersAlone(t *testing.T) {
	db := testDB(t)
	svc := NewAccountService(db, subscription.NewBroker())
	victim := uuid.New()
	bystander := uuid.New()
	seedUserData(t, db, victim)
	seedUserData(t, db, bystander)

	require.NoError(t, svc.DeleteAllUserData(victim))
	require.Equal(t, int64(0), countAll(t, db, victim))
	require.Equal(t, int64(10), countAll(t, db, bystander))
}

func TestDeleteAllUserDataNotifiesGoalSubscribers(t *testing.T) {
	db := testDB(t)
	broker := subscription.NewBroker()
	svc := NewAccountService(db, broker)
	goalSvc := goals.NewService(db, broker)
	userID := uuid.New()
	seedUserData(t, db, userID)

	sub := subscription.Subscribe(context.Background(), broker,
		func(context.Context) ([]goals.Goal, error) {
			return goalSvc.List(userID, nil)
		},
		scope.Topic(goals.Collection, userID))
	defer sub.Cancel()

	select {
	case initial := <-sub.Updates():
		require.Len(t, initial, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial delivery")
	}

	require.NoError(t, svc.DeleteAllUserData(userID))

	select {
	case fresh := <-sub.Updates():
		require.Empty(t, fresh)
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery after fan-out")
	}

	// one publish on the goals topic means exactly one refresh
	select {
	case extra, ok := <-sub.Updates():
		if ok {
			t.Fatalf("unexpected extra delivery: %v", extra)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

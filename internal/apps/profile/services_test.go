package profile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Profile{}))
	return NewService(db, subscription.NewBroker())
}

func seedProfile(t *testing.T, svc *Service) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	_, err := svc.Seed(svc.db, userID, "jo@example.com", "Jo", "")
	require.NoError(t, err)
	return userID
}

func TestSeedAndGet(t *testing.T) {
	svc := testService(t)
	userID := seedProfile(t, svc)

	p, err := svc.Get(userID)
	require.NoError(t, err)
	require.Equal(t, "Jo", p.FullName)
	require.Equal(t, "jo@example.com", p.Email)
	require.Nil(t, p.Height)

	_, err = svc.Get(uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateValidatesMeasures(t *testing.T) {
	svc := testService(t)
	userID := seedProfile(t, svc)

	height := 180.0
	weight := 81.0
	age := 30
	p, err := svc.Update(userID, &UpdateRequest{Height: &height, Weight: &weight, Age: &age})
	require.NoError(t, err)
	require.Equal(t, 180.0, *p.Height)

	bad := -5.0
	_, err = svc.Update(userID, &UpdateRequest{Weight: &bad})
	require.ErrorIs(t, err, ErrInvalidMeasure)
}

func TestBMIFromProfile(t *testing.T) {
	svc := testService(t)
	userID := seedProfile(t, svc)

	// height and weight not set yet
	resp, err := svc.BMI(userID)
	require.NoError(t, err)
	require.False(t, resp.Available)

	height := 180.0
	weight := 81.0
	_, err = svc.Update(userID, &UpdateRequest{Height: &height, Weight: &weight})
	require.NoError(t, err)

	resp, err = svc.BMI(userID)
	require.NoError(t, err)
	require.True(t, resp.Available)
	require.InDelta(t, 25.0, resp.BMI, 0.01)
	require.Equal(t, "Overweight", resp.Category)
}

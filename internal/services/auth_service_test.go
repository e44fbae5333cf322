package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/apps/dashboard"
	"github.com/mybenefit/fitness-backend/internal/apps/profile"
	"github.com/mybenefit/fitness-backend/internal/config"
	"github.com/mybenefit/fitness-backend/internal/dto"
	"github.com/mybenefit/fitness-backend/internal/models"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func testAuth(t *testing.T) (*AuthService, *gorm.DB, *AccountService) {
	t.Helper()
	db := testDB(t)
	broker := subscription.NewBroker()
	accounts := NewAccountService(db, broker)
	profiles := profile.NewService(db, broker)
	settings := dashboard.NewService(db, broker)

	auth := NewAuthService(db, testConfig(), Lifecycle{
		OnUserCreated: func(tx *gorm.DB, user *models.User) error {
			if _, err := profiles.Seed(tx, user.ID, user.Email, user.DisplayName, user.PhotoURL); err != nil {
				return err
			}
			_, err := settings.SeedDefaults(tx, user.ID)
			return err
		},
		OnUserDeleted:    accounts.Purge,
		AfterUserDeleted: accounts.Notify,
	})
	return auth, db, accounts
}

func register(t *testing.T, auth *AuthService) *dto.AuthResponse {
	t.Helper()
	resp, err := auth.Register(&dto.RegisterRequest{
		Email:       "jo@example.com",
		Password:    "supersecret",
		DisplayName: "Jo",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterSeedsProfileAndSettings(t *testing.T) {
	auth, db, _ := testAuth(t)
	resp := register(t, auth)

	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "jo@example.com", resp.User.Email)

	var p profile.Profile
	require.NoError(t, db.First(&p, "user_id = ?", resp.User.ID).Error)
	require.Equal(t, "Jo", p.FullName)
	require.Equal(t, "jo@example.com", p.Email)

	var s dashboard.UserSettings
	require.NoError(t, db.First(&s, "user_id = ?", resp.User.ID).Error)
	require.Equal(t, dashboard.DefaultStepsTarget, s.DailyStepsTarget)
	require.Equal(t, dashboard.DefaultTheme, s.Theme)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth, _, _ := testAuth(t)
	register(t, auth)

	_, err := auth.Register(&dto.RegisterRequest{Email: "jo@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	auth, _, _ := testAuth(t)
	_, err := auth.Register(&dto.RegisterRequest{Email: "jo@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestLogin(t *testing.T) {
	auth, _, _ := testAuth(t)
	register(t, auth)

	resp, err := auth.Login(&dto.LoginRequest{Email: "jo@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	_, err = auth.Login(&dto.LoginRequest{Email: "jo@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	auth, _, _ := testAuth(t)
	first := register(t, auth)

	second, err := auth.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the consumed token is revoked and cannot be replayed
	_, err = auth.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	auth, _, _ := testAuth(t)
	resp := register(t, auth)

	require.NoError(t, auth.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err := auth.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccountRequiresCorrectPassword(t *testing.T) {
	auth, _, _ := testAuth(t)
	resp := register(t, auth)

	require.ErrorIs(t, auth.DeleteAccount(resp.User.ID, "wrong-password"), ErrInvalidCredentials)
	require.Error(t, auth.DeleteAccount(resp.User.ID, ""))
}

func TestDeleteAccountFansOut(t *testing.T) {
	auth, db, _ := testAuth(t)
	resp := register(t, auth)
	seedUserData(t, db, uuid.New()) // unrelated user stays put

	require.NoError(t, auth.DeleteAccount(resp.User.ID, "supersecret"))

	require.Equal(t, int64(0), countAll(t, db, resp.User.ID))

	var tokens int64
	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("user_id = ?", resp.User.ID).Count(&tokens).Error)
	require.Zero(t, tokens)

	var user models.User
	err := db.First(&user, "id = ?", resp.User.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = auth.Login(&dto.LoginRequest{Email: "jo@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

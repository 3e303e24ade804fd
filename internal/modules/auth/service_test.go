package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/database"
	"github.com/MHYAnate/rootafapi/internal/domain"
	jwtsvc "github.com/MHYAnate/rootafapi/internal/pkg/jwt"
	"github.com/MHYAnate/rootafapi/internal/repository"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	access := jwtsvc.New("test-access-secret", time.Hour, jwtsvc.KindUserAccess)
	refresh := jwtsvc.New("test-refresh-secret", 24*time.Hour, jwtsvc.KindUserRefresh)

	return NewService(users, sessions, access, refresh, bcrypt.MinCost), db
}

func memberRequest(phone string) RegisterMemberRequest {
	return RegisterMemberRequest{
		PhoneNumber:         phone,
		FullName:            "Ade Farmer",
		Password:            "secure-pass-1",
		ProviderType:        "FARMER",
		LocalGovernmentArea: "Ikeja",
		State:               "Lagos",
	}
}

func TestRegisterMember(t *testing.T) {
	svc, db := newTestService(t)

	user, err := svc.RegisterMember(context.Background(), memberRequest("08012345678"))
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationPending, user.VerificationStatus)
	assert.NotNil(t, user.VerificationSubmittedAt)
	assert.Empty(t, user.PasswordHash)

	var profile domain.MemberProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "FARMER", profile.ProviderType)

	t.Run("duplicate phone conflicts", func(t *testing.T) {
		_, err := svc.RegisterMember(context.Background(), memberRequest("08012345678"))
		assert.ErrorIs(t, err, ErrPhoneAlreadyExists)
	})

	t.Run("client cannot reuse a member phone either", func(t *testing.T) {
		_, err := svc.RegisterClient(context.Background(), RegisterClientRequest{
			PhoneNumber:         "08012345678",
			FullName:            "Bisi Client",
			Password:            "secure-pass-1",
			LocalGovernmentArea: "Ikeja",
			State:               "Lagos",
		})
		assert.ErrorIs(t, err, ErrPhoneAlreadyExists)
	})
}

func TestLogin(t *testing.T) {
	svc, db := newTestService(t)
	registered, err := svc.RegisterMember(context.Background(), memberRequest("08012345678"))
	require.NoError(t, err)

	t.Run("success issues both tokens and a session row", func(t *testing.T) {
		result, err := svc.Login(context.Background(), LoginRequest{
			PhoneNumber: "08012345678",
			Password:    "secure-pass-1",
		}, "10.0.0.9")
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.NotEqual(t, result.AccessToken, result.RefreshToken)

		var sessions int64
		require.NoError(t, db.Model(&domain.UserSession{}).
			Where("user_id = ? AND is_active = ?", registered.ID, true).
			Count(&sessions).Error)
		assert.EqualValues(t, 1, sessions)

		var got domain.User
		require.NoError(t, db.First(&got, registered.ID).Error)
		assert.Equal(t, 1, got.LoginCount)
		assert.NotNil(t, got.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{
			PhoneNumber: "08012345678",
			Password:    "wrong",
		}, "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown phone looks identical to wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{
			PhoneNumber: "08000000000",
			Password:    "whatever",
		}, "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginLockout(t *testing.T) {
	svc, db := newTestService(t)
	registered, err := svc.RegisterMember(context.Background(), memberRequest("08012345678"))
	require.NoError(t, err)

	login := func(password string) error {
		_, err := svc.Login(context.Background(), LoginRequest{
			PhoneNumber: "08012345678",
			Password:    password,
		}, "")
		return err
	}

	for i := 0; i < maxFailedLoginAttempts-1; i++ {
		assert.ErrorIs(t, login("wrong"), ErrInvalidCredentials)
	}

	var locked *AccountLockedError
	require.ErrorAs(t, login("wrong"), &locked)
	assert.WithinDuration(t, time.Now().Add(userLockoutDuration), locked.Until, time.Minute)

	// correct credentials are refused during the window and the counter
	// does not move
	assert.ErrorAs(t, login("secure-pass-1"), &locked)

	var got domain.User
	require.NoError(t, db.First(&got, registered.ID).Error)
	assert.Equal(t, maxFailedLoginAttempts, got.FailedLoginAttempts)

	// once the window passes, a good login clears everything
	require.NoError(t, db.Model(&got).Update("locked_until", time.Now().Add(-time.Second)).Error)
	require.NoError(t, login("secure-pass-1"))

	got = domain.User{}
	require.NoError(t, db.First(&got, registered.ID).Error)
	assert.Zero(t, got.FailedLoginAttempts)
	assert.Nil(t, got.LockedUntil)
}

func TestRefreshSession(t *testing.T) {
	svc, db := newTestService(t)
	registered, err := svc.RegisterMember(context.Background(), memberRequest("08012345678"))
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginRequest{
		PhoneNumber: "08012345678",
		Password:    "secure-pass-1",
	}, "")
	require.NoError(t, err)

	t.Run("valid refresh rotates the session", func(t *testing.T) {
		refreshed, err := svc.RefreshSession(context.Background(), result.RefreshToken, "")
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEqual(t, result.RefreshToken, refreshed.RefreshToken)

		// the old token's session row is gone
		_, err = svc.RefreshSession(context.Background(), result.RefreshToken, "")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("access token is not accepted as refresh", func(t *testing.T) {
		_, err := svc.RefreshSession(context.Background(), result.AccessToken, "")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("terminated sessions cannot refresh", func(t *testing.T) {
		again, err := svc.Login(context.Background(), LoginRequest{
			PhoneNumber: "08012345678",
			Password:    "secure-pass-1",
		}, "")
		require.NoError(t, err)

		sessions := repository.NewSessionRepository(db)
		require.NoError(t, sessions.TerminateUserSessionsIn(db, registered.ID))

		_, err = svc.RefreshSession(context.Background(), again.RefreshToken, "")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	registered, err := svc.RegisterMember(context.Background(), memberRequest("08012345678"))
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), registered.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "another-pass-1",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, svc.ChangePassword(context.Background(), registered.ID, ChangePasswordRequest{
		CurrentPassword: "secure-pass-1",
		NewPassword:     "another-pass-1",
	}))

	_, err = svc.Login(context.Background(), LoginRequest{
		PhoneNumber: "08012345678",
		Password:    "another-pass-1",
	}, "")
	assert.NoError(t, err)
}

func TestRequestPasswordReset(t *testing.T) {
	svc, db := newTestService(t)
	registered, err := svc.RegisterMember(context.Background(), memberRequest("08012345678"))
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), RequestPasswordResetRequest{
		PhoneNumber: "08012345678",
		Reason:      "forgot it",
	}))

	var request domain.PasswordResetRequest
	require.NoError(t, db.Where("user_id = ?", registered.ID).First(&request).Error)
	assert.Equal(t, domain.ResetPending, request.Status)
	assert.WithinDuration(t, time.Now().Add(resetRequestTTL), request.ExpiresAt, time.Minute)

	err = svc.RequestPasswordReset(context.Background(), RequestPasswordResetRequest{
		PhoneNumber: "08099999999",
		Reason:      "unknown phone",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

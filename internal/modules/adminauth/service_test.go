package adminauth

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
	"github.com/MHYAnate/rootafapi/internal/modules/activity"
	jwtsvc "github.com/MHYAnate/rootafapi/internal/pkg/jwt"
	"github.com/MHYAnate/rootafapi/internal/repository"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	admins := repository.NewAdminRepository(db)
	sessions := repository.NewSessionRepository(db)
	audit := activity.NewService(activity.NewRepository(db))
	tokens := jwtsvc.New("test-admin-secret", 8*time.Hour, jwtsvc.KindAdmin)

	return NewService(admins, sessions, audit, tokens, bcrypt.MinCost), db
}

func seedAdmin(t *testing.T, db *gorm.DB, username, password string, caps domain.Capabilities) *domain.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &domain.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Seed Admin",
		Role:         domain.RoleSuperAdmin,
		Capabilities: caps,
		IsActive:     true,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func TestLogin(t *testing.T) {
	svc, db := newTestService(t)
	seedAdmin(t, db, "root", "correct-horse", domain.DefaultCapabilities(domain.RoleSuperAdmin))

	t.Run("success creates a session and audit row", func(t *testing.T) {
		result, err := svc.Login(context.Background(), LoginRequest{Username: "root", Password: "correct-horse"}, "10.0.0.1")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)

		var sessions int64
		require.NoError(t, db.Model(&domain.AdminSession{}).
			Where("admin_id = ? AND is_active = ?", result.Admin.ID, true).
			Count(&sessions).Error)
		assert.EqualValues(t, 1, sessions)

		var audits int64
		require.NoError(t, db.Model(&domain.AdminActivityLog{}).
			Where("admin_id = ? AND action_type = ?", result.Admin.ID, domain.ActionLogin).
			Count(&audits).Error)
		assert.EqualValues(t, 1, audits)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{Username: "root", Password: "nope"}, "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "x"}, "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginLockout(t *testing.T) {
	svc, db := newTestService(t)
	admin := seedAdmin(t, db, "lockme", "secret-pass", domain.Capabilities{})

	for i := 0; i < maxFailedLoginAttempts-1; i++ {
		_, err := svc.Login(context.Background(), LoginRequest{Username: "lockme", Password: "wrong"}, "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// fifth failure locks
	_, err := svc.Login(context.Background(), LoginRequest{Username: "lockme", Password: "wrong"}, "")
	var locked *AccountLockedError
	require.ErrorAs(t, err, &locked)
	assert.WithinDuration(t, time.Now().Add(adminLockoutDuration), locked.Until, time.Minute)

	// correct password is still refused during the window, and the
	// counter stays put
	_, err = svc.Login(context.Background(), LoginRequest{Username: "lockme", Password: "secret-pass"}, "")
	assert.ErrorAs(t, err, &locked)

	var got domain.AdminUser
	require.NoError(t, db.First(&got, admin.ID).Error)
	assert.Equal(t, maxFailedLoginAttempts, got.FailedLoginAttempts)

	// expired lock clears on next successful login
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&got).Update("locked_until", past).Error)

	result, err := svc.Login(context.Background(), LoginRequest{Username: "lockme", Password: "secret-pass"}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	got = domain.AdminUser{}
	require.NoError(t, db.First(&got, admin.ID).Error)
	assert.Zero(t, got.FailedLoginAttempts)
	assert.Nil(t, got.LockedUntil)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, db := newTestService(t)
	seedAdmin(t, db, "root", "correct-horse", domain.DefaultCapabilities(domain.RoleSuperAdmin))

	result, err := svc.Login(context.Background(), LoginRequest{Username: "root", Password: "correct-horse"}, "")
	require.NoError(t, err)

	sessions := repository.NewSessionRepository(db)
	hash := jwtsvc.HashToken(result.Token)

	active, err := sessions.IsSessionActive(context.Background(), result.Admin.ID, hash, time.Now())
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, svc.Logout(context.Background(), result.Admin.ID, result.Token, ""))

	active, err = sessions.IsSessionActive(context.Background(), result.Admin.ID, hash, time.Now())
	require.NoError(t, err)
	assert.False(t, active)
}

func TestCreateAdmin(t *testing.T) {
	svc, db := newTestService(t)
	super := seedAdmin(t, db, "root", "correct-horse", domain.DefaultCapabilities(domain.RoleSuperAdmin))

	t.Run("role defaults with per-flag override", func(t *testing.T) {
		no := false
		created, err := svc.CreateAdmin(context.Background(), super.ID, CreateAdminRequest{
			Username: "verifier",
			Password: "initial-pass",
			FullName: "Verifier One",
			Role:     string(domain.RoleVerificationAdmin),
			CapabilityOverrides: CapabilityOverrides{
				CanResetPasswords: &no,
			},
		}, "")
		require.NoError(t, err)

		assert.True(t, created.CanVerifyMembers)
		assert.True(t, created.CanVerifyClients)
		assert.False(t, created.CanResetPasswords)
		assert.True(t, created.MustChangePassword)
		require.NotNil(t, created.CreatedByAdminID)
		assert.Equal(t, super.ID, *created.CreatedByAdminID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.CreateAdmin(context.Background(), super.ID, CreateAdminRequest{
			Username: "verifier",
			Password: "initial-pass",
			FullName: "Dup",
			Role:     string(domain.RoleContentAdmin),
		}, "")
		assert.ErrorIs(t, err, ErrUsernameExists)
	})

	t.Run("actor without canManageAdmins", func(t *testing.T) {
		limited := seedAdmin(t, db, "limited", "x-pass-x", domain.DefaultCapabilities(domain.RoleContentAdmin))
		_, err := svc.CreateAdmin(context.Background(), limited.ID, CreateAdminRequest{
			Username: "another",
			Password: "initial-pass",
			FullName: "A",
			Role:     string(domain.RoleContentAdmin),
		}, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestUpdateAdminRecordsDiff(t *testing.T) {
	svc, db := newTestService(t)
	super := seedAdmin(t, db, "root", "correct-horse", domain.DefaultCapabilities(domain.RoleSuperAdmin))
	target := seedAdmin(t, db, "target", "target-pass", domain.DefaultCapabilities(domain.RoleContentAdmin))

	name := "Renamed Admin"
	yes := true
	updated, err := svc.UpdateAdmin(context.Background(), super.ID, target.ID, UpdateAdminRequest{
		FullName:            &name,
		CapabilityOverrides: CapabilityOverrides{CanExportData: &yes},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Admin", updated.FullName)
	assert.True(t, updated.CanExportData)

	var log domain.AdminActivityLog
	require.NoError(t, db.
		Where("action_type = ? AND target_id = ?", domain.ActionAdminUpdated, target.ID).
		First(&log).Error)
	assert.NotEmpty(t, log.PreviousValues)
	assert.NotEmpty(t, log.NewValues)
	assert.Contains(t, string(log.ChangedFields), "full_name")
	assert.Contains(t, string(log.ChangedFields), "capabilities")
}

func TestToggleAdminStatus(t *testing.T) {
	svc, db := newTestService(t)
	super := seedAdmin(t, db, "root", "correct-horse", domain.DefaultCapabilities(domain.RoleSuperAdmin))

	t.Run("self-deactivation is refused", func(t *testing.T) {
		_, err := svc.ToggleAdminStatus(context.Background(), super.ID, super.ID, "")
		assert.ErrorIs(t, err, ErrSelfAction)
	})

	t.Run("deactivation cascades to sessions", func(t *testing.T) {
		target := seedAdmin(t, db, "victim", "victim-pass", domain.DefaultCapabilities(domain.RoleContentAdmin))
		result, err := svc.Login(context.Background(), LoginRequest{Username: "victim", Password: "victim-pass"}, "")
		require.NoError(t, err)

		toggled, err := svc.ToggleAdminStatus(context.Background(), super.ID, target.ID, "")
		require.NoError(t, err)
		assert.False(t, toggled.IsActive)

		sessions := repository.NewSessionRepository(db)
		active, err := sessions.IsSessionActive(context.Background(), target.ID, jwtsvc.HashToken(result.Token), time.Now())
		require.NoError(t, err)
		assert.False(t, active)

		// deactivated admins cannot log in
		_, err = svc.Login(context.Background(), LoginRequest{Username: "victim", Password: "victim-pass"}, "")
		assert.ErrorIs(t, err, ErrAccountDeactivated)

		// and reactivation restores access
		toggled, err = svc.ToggleAdminStatus(context.Background(), super.ID, target.ID, "")
		require.NoError(t, err)
		assert.True(t, toggled.IsActive)
	})
}

func TestResetAdminPassword(t *testing.T) {
	svc, db := newTestService(t)
	super := seedAdmin(t, db, "root", "correct-horse", domain.DefaultCapabilities(domain.RoleSuperAdmin))
	target := seedAdmin(t, db, "target", "old-password", domain.DefaultCapabilities(domain.RoleContentAdmin))

	require.NoError(t, svc.ResetAdminPassword(context.Background(), super.ID, target.ID, "fresh-password", ""))

	var got domain.AdminUser
	require.NoError(t, db.First(&got, target.ID).Error)
	assert.True(t, got.MustChangePassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("fresh-password")))
}

func TestChangeOwnPassword(t *testing.T) {
	svc, db := newTestService(t)
	admin := seedAdmin(t, db, "root", "correct-horse", domain.DefaultCapabilities(domain.RoleSuperAdmin))
	require.NoError(t, db.Model(admin).Update("must_change_password", true).Error)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangeOwnPassword(context.Background(), admin.ID, ChangePasswordRequest{
			CurrentPassword: "nope",
			NewPassword:     "brand-new-pass",
		})
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("reuse is refused", func(t *testing.T) {
		err := svc.ChangeOwnPassword(context.Background(), admin.ID, ChangePasswordRequest{
			CurrentPassword: "correct-horse",
			NewPassword:     "correct-horse",
		})
		assert.ErrorIs(t, err, ErrPasswordReuse)
	})

	t.Run("success clears the change flag", func(t *testing.T) {
		err := svc.ChangeOwnPassword(context.Background(), admin.ID, ChangePasswordRequest{
			CurrentPassword: "correct-horse",
			NewPassword:     "brand-new-pass",
		})
		require.NoError(t, err)

		var got domain.AdminUser
		require.NoError(t, db.First(&got, admin.ID).Error)
		assert.False(t, got.MustChangePassword)
	})
}

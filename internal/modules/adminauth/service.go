package adminauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/modules/activity"
	jwtsvc "github.com/MHYAnate/rootafapi/internal/pkg/jwt"
)

const (
	maxFailedLoginAttempts = 5
	adminLockoutDuration   = time.Hour
)

// Service covers admin authentication and admin account management.
// Tokens are only half the story here: every login writes a session row
// and the middleware rejects tokens whose row has been revoked.
type Service struct {
	admins     AdminRepositoryInterface
	sessions   SessionRepositoryInterface
	audit      AuditLogger
	tokens     *jwtsvc.Service
	bcryptCost int
}

type LoginResult struct {
	Admin              *domain.AdminUser
	Token              string
	MustChangePassword bool
}

func NewService(
	admins AdminRepositoryInterface,
	sessions SessionRepositoryInterface,
	audit AuditLogger,
	tokens *jwtsvc.Service,
	bcryptCost int,
) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		admins:     admins,
		sessions:   sessions,
		audit:      audit,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest, ip string) (*LoginResult, error) {
	admin, err := s.admins.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()

	// Same short-circuit as user login: probing a locked account neither
	// increments the counter nor extends the lock.
	if admin.LockedUntil != nil && admin.LockedUntil.After(now) {
		return nil, &AccountLockedError{Until: *admin.LockedUntil}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		attempts := admin.FailedLoginAttempts + 1
		updates := map[string]any{"failed_login_attempts": attempts}
		if attempts >= maxFailedLoginAttempts {
			updates["locked_until"] = now.Add(adminLockoutDuration)
		}
		if updateErr := s.admins.DB().WithContext(ctx).
			Model(&domain.AdminUser{}).
			Where("id = ?", admin.ID).
			Updates(updates).Error; updateErr != nil {
			return nil, updateErr
		}
		if attempts >= maxFailedLoginAttempts {
			return nil, &AccountLockedError{Until: now.Add(adminLockoutDuration)}
		}
		return nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		return nil, ErrAccountDeactivated
	}

	token, err := s.tokens.GenerateToken(admin.ID, jwtsvc.Identity{
		Username: admin.Username,
		Role:     string(admin.Role),
	})
	if err != nil {
		return nil, err
	}

	err = s.admins.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.AdminUser{}).Where("id = ?", admin.ID).Updates(map[string]any{
			"last_login_at":         now,
			"login_count":           gorm.Expr("login_count + 1"),
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}).Error; err != nil {
			return err
		}

		session := &domain.AdminSession{
			AdminID:   admin.ID,
			TokenHash: jwtsvc.HashToken(token),
			ExpiresAt: now.Add(s.tokens.TTL()),
			IsActive:  true,
		}
		if ip != "" {
			session.IP = &ip
		}
		if err := s.sessions.CreateAdminSessionIn(tx, session); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     admin.ID,
			ActionType:  domain.ActionLogin,
			Description: fmt.Sprintf("Admin %s logged in", admin.Username),
			IP:          ip,
		})
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Admin:              admin,
		Token:              token,
		MustChangePassword: admin.MustChangePassword,
	}, nil
}

// Logout revokes the presented token's session row. The token itself
// stays cryptographically valid until expiry; the middleware's session
// check is what locks it out.
func (s *Service) Logout(ctx context.Context, adminID int64, rawToken, ip string) error {
	return s.admins.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.sessions.DeactivateAdminSessionIn(tx, adminID, jwtsvc.HashToken(rawToken), "logout"); err != nil {
			return err
		}
		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     adminID,
			ActionType:  domain.ActionLogout,
			Description: "Admin logged out",
			IP:          ip,
		})
	})
}

// gateManage loads the acting admin and requires the canManageAdmins
// flag.
func (s *Service) gateManage(ctx context.Context, actorID int64) (*domain.AdminUser, error) {
	actor, err := s.admins.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	if !actor.IsActive || !actor.CanManageAdmins {
		return nil, ErrForbidden
	}
	return actor, nil
}

func (s *Service) CreateAdmin(ctx context.Context, actorID int64, req CreateAdminRequest, ip string) (*domain.AdminUser, error) {
	actor, err := s.gateManage(ctx, actorID)
	if err != nil {
		return nil, err
	}

	exists, err := s.admins.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role := domain.AdminRole(req.Role)
	admin := &domain.AdminUser{
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
		Capabilities: req.CapabilityOverrides.applyTo(domain.DefaultCapabilities(role)),
		IsActive:     true,
		// First login must rotate the password handed out by the creator.
		MustChangePassword: true,
		CreatedByAdminID:   &actor.ID,
	}
	if req.Email != "" {
		admin.Email = &req.Email
	}
	if req.PhoneNumber != "" {
		admin.PhoneNumber = &req.PhoneNumber
	}

	err = s.admins.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     actorID,
			ActionType:  domain.ActionAdminCreated,
			Description: fmt.Sprintf("Created admin %s with role %s", admin.Username, admin.Role),
			TargetType:  "admin",
			TargetID:    admin.ID,
			TargetName:  admin.Username,
			New:         toSummary(admin),
			IP:          ip,
		})
	})
	if err != nil {
		return nil, err
	}

	admin.PasswordHash = ""
	return admin, nil
}

// UpdateAdmin applies partial updates and records a prev/new diff in
// the audit trail.
func (s *Service) UpdateAdmin(ctx context.Context, actorID, targetID int64, req UpdateAdminRequest, ip string) (*domain.AdminUser, error) {
	if _, err := s.gateManage(ctx, actorID); err != nil {
		return nil, err
	}

	target, err := s.admins.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	previous := toSummary(target)

	var changed []string
	if req.FullName != nil && *req.FullName != target.FullName {
		target.FullName = *req.FullName
		changed = append(changed, "full_name")
	}
	if req.Email != nil {
		target.Email = req.Email
		changed = append(changed, "email")
	}
	if req.PhoneNumber != nil {
		target.PhoneNumber = req.PhoneNumber
		changed = append(changed, "phone_number")
	}
	if req.Role != nil && domain.AdminRole(*req.Role) != target.Role {
		target.Role = domain.AdminRole(*req.Role)
		changed = append(changed, "role")
	}

	before := target.Capabilities
	target.Capabilities = req.CapabilityOverrides.applyTo(target.Capabilities)
	if target.Capabilities != before {
		changed = append(changed, "capabilities")
	}

	if len(changed) == 0 {
		target.PasswordHash = ""
		return target, nil
	}

	err = s.admins.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(target).Error; err != nil {
			return err
		}
		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     actorID,
			ActionType:  domain.ActionAdminUpdated,
			Description: fmt.Sprintf("Updated admin %s", target.Username),
			TargetType:  "admin",
			TargetID:    target.ID,
			TargetName:  target.Username,
			Previous:    previous,
			New:         toSummary(target),
			Changed:     changed,
			IP:          ip,
		})
	})
	if err != nil {
		return nil, err
	}

	target.PasswordHash = ""
	return target, nil
}

// ToggleAdminStatus deactivates or reactivates an admin. Deactivation
// kills every live session in the same transaction; an admin cannot
// deactivate themself.
func (s *Service) ToggleAdminStatus(ctx context.Context, actorID, targetID int64, ip string) (*domain.AdminUser, error) {
	if _, err := s.gateManage(ctx, actorID); err != nil {
		return nil, err
	}
	if actorID == targetID {
		return nil, ErrSelfAction
	}

	target, err := s.admins.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	now := time.Now()
	deactivating := target.IsActive

	err = s.admins.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"is_active": !target.IsActive}
		action := domain.ActionAdminReactivated
		description := fmt.Sprintf("Reactivated admin %s", target.Username)

		if deactivating {
			updates["deactivated_at"] = now
			action = domain.ActionAdminDeactivated
			description = fmt.Sprintf("Deactivated admin %s", target.Username)
		} else {
			updates["deactivated_at"] = nil
		}

		if err := tx.Model(&domain.AdminUser{}).Where("id = ?", targetID).Updates(updates).Error; err != nil {
			return err
		}

		if deactivating {
			if err := s.sessions.TerminateAdminSessionsIn(tx, targetID, "admin deactivated"); err != nil {
				return err
			}
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     actorID,
			ActionType:  action,
			Description: description,
			TargetType:  "admin",
			TargetID:    targetID,
			TargetName:  target.Username,
			IP:          ip,
		})
	})
	if err != nil {
		return nil, err
	}

	target.IsActive = !deactivating
	target.PasswordHash = ""
	return target, nil
}

// ResetAdminPassword sets a new password on another admin, forces a
// change at next login and revokes their sessions.
func (s *Service) ResetAdminPassword(ctx context.Context, actorID, targetID int64, newPassword, ip string) error {
	if _, err := s.gateManage(ctx, actorID); err != nil {
		return err
	}

	target, err := s.admins.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	return s.admins.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.AdminUser{}).Where("id = ?", targetID).Updates(map[string]any{
			"password_hash":         string(hash),
			"must_change_password":  true,
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}).Error; err != nil {
			return err
		}

		if err := s.sessions.TerminateAdminSessionsIn(tx, targetID, "password reset"); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     actorID,
			ActionType:  domain.ActionAdminPasswordReset,
			Description: fmt.Sprintf("Reset password for admin %s", target.Username),
			TargetType:  "admin",
			TargetID:    targetID,
			TargetName:  target.Username,
			IP:          ip,
		})
	})
}

func (s *Service) ChangeOwnPassword(ctx context.Context, adminID int64, req ChangePasswordRequest) error {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrPasswordReuse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	return s.admins.DB().WithContext(ctx).
		Model(&domain.AdminUser{}).
		Where("id = ?", adminID).
		Updates(map[string]any{
			"password_hash":        string(hash),
			"must_change_password": false,
		}).Error
}

// TerminateSessions force-revokes every live session of the target
// admin without touching the account itself.
func (s *Service) TerminateSessions(ctx context.Context, actorID, targetID int64, reason, ip string) error {
	if _, err := s.gateManage(ctx, actorID); err != nil {
		return err
	}

	target, err := s.admins.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	if reason == "" {
		reason = "terminated by admin"
	}

	return s.admins.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.sessions.TerminateAdminSessionsIn(tx, targetID, reason); err != nil {
			return err
		}
		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     actorID,
			ActionType:  domain.ActionSessionsTerminated,
			Description: fmt.Sprintf("Terminated all sessions of admin %s: %s", target.Username, reason),
			TargetType:  "admin",
			TargetID:    targetID,
			TargetName:  target.Username,
			IP:          ip,
		})
	})
}

func (s *Service) GetProfile(ctx context.Context, adminID int64) (*domain.AdminUser, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	admin.PasswordHash = ""
	return admin, nil
}

func (s *Service) ListAdmins(ctx context.Context, actorID int64) ([]domain.AdminUser, error) {
	if _, err := s.gateManage(ctx, actorID); err != nil {
		return nil, err
	}
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range admins {
		admins[i].PasswordHash = ""
	}
	return admins, nil
}

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	jwtsvc "github.com/MHYAnate/rootafapi/internal/pkg/jwt"
)

const (
	maxFailedLoginAttempts = 5
	userLockoutDuration    = 30 * time.Minute
	resetRequestTTL        = 24 * time.Hour
)

// Service contains all business logic for user authentication.
type Service struct {
	users      UserRepositoryInterface
	sessions   SessionRepositoryInterface
	access     *jwtsvc.Service
	refresh    *jwtsvc.Service
	bcryptCost int
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

func NewService(
	users UserRepositoryInterface,
	sessions SessionRepositoryInterface,
	access *jwtsvc.Service,
	refresh *jwtsvc.Service,
	bcryptCost int,
) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		sessions:   sessions,
		access:     access,
		refresh:    refresh,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) RegisterMember(ctx context.Context, req RegisterMemberRequest) (*domain.User, error) {
	if err := s.validatePhoneUnique(ctx, req.PhoneNumber); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		PhoneNumber:             strings.TrimSpace(req.PhoneNumber),
		PasswordHash:            hash,
		FullName:                req.FullName,
		Email:                   nullableString(req.Email),
		UserType:                domain.UserTypeMember,
		VerificationStatus:      domain.VerificationPending,
		VerificationSubmittedAt: &now,
		IsActive:                true,
	}

	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&domain.MemberProfile{
			UserID:              user.ID,
			ProviderType:        req.ProviderType,
			Address:             nullableString(req.Address),
			LocalGovernmentArea: req.LocalGovernmentArea,
			State:               req.State,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) RegisterClient(ctx context.Context, req RegisterClientRequest) (*domain.User, error) {
	if err := s.validatePhoneUnique(ctx, req.PhoneNumber); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		PhoneNumber:             strings.TrimSpace(req.PhoneNumber),
		PasswordHash:            hash,
		FullName:                req.FullName,
		Email:                   nullableString(req.Email),
		UserType:                domain.UserTypeClient,
		VerificationStatus:      domain.VerificationPending,
		VerificationSubmittedAt: &now,
		IsActive:                true,
	}

	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&domain.ClientProfile{
			UserID:              user.ID,
			State:               req.State,
			LocalGovernmentArea: req.LocalGovernmentArea,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest, ip string) (*LoginResult, error) {
	user, err := s.users.GetByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()

	// Locked accounts short-circuit before the password check, so probing
	// during the window neither increments the counter nor extends the lock.
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, &AccountLockedError{Until: *user.LockedUntil}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		// Compute the new counter from the row, not a cache, so concurrent
		// failures converge on a consistent locked state.
		attempts := user.FailedLoginAttempts + 1
		updates := map[string]any{"failed_login_attempts": attempts}
		if attempts >= maxFailedLoginAttempts {
			updates["locked_until"] = now.Add(userLockoutDuration)
		}
		if updateErr := s.users.DB().WithContext(ctx).
			Model(&domain.User{}).
			Where("id = ?", user.ID).
			Updates(updates).Error; updateErr != nil {
			return nil, updateErr
		}
		if attempts >= maxFailedLoginAttempts {
			return nil, &AccountLockedError{Until: now.Add(userLockoutDuration)}
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountSuspended
	}

	identity := jwtsvc.Identity{
		PhoneNumber: user.PhoneNumber,
		UserType:    string(user.UserType),
	}
	accessToken, err := s.access.GenerateToken(user.ID, identity)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.refresh.GenerateToken(user.ID, identity)
	if err != nil {
		return nil, err
	}

	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", user.ID).Updates(map[string]any{
			"last_login_at":         now,
			"login_count":           gorm.Expr("login_count + 1"),
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}).Error; err != nil {
			return err
		}
		return s.sessions.CreateUserSessionIn(tx, &domain.UserSession{
			UserID:    user.ID,
			TokenHash: jwtsvc.HashToken(refreshToken),
			IP:        nullableString(ip),
			ExpiresAt: now.Add(s.refresh.TTL()),
			IsActive:  true,
		})
	})
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) RefreshSession(ctx context.Context, refreshToken, ip string) (*RefreshResult, error) {
	claims, err := s.refresh.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	now := time.Now()
	oldHash := jwtsvc.HashToken(refreshToken)

	// Suspension killed the session rows, so a suspended user's refresh
	// token dies here even while cryptographically unexpired.
	var live int64
	if err := s.users.DB().WithContext(ctx).
		Model(&domain.UserSession{}).
		Where("user_id = ? AND token_hash = ? AND is_active = ? AND expires_at > ?",
			claims.SubjectID, oldHash, true, now).
		Count(&live).Error; err != nil {
		return nil, err
	}
	if live == 0 {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if !user.IsActive {
		return nil, ErrAccountSuspended
	}

	identity := jwtsvc.Identity{
		PhoneNumber: user.PhoneNumber,
		UserType:    string(user.UserType),
	}
	accessToken, err := s.access.GenerateToken(user.ID, identity)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.refresh.GenerateToken(user.ID, identity)
	if err != nil {
		return nil, err
	}

	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.sessions.RotateUserSessionIn(tx, user.ID, oldHash, &domain.UserSession{
			UserID:    user.ID,
			TokenHash: jwtsvc.HashToken(newRefresh),
			IP:        nullableString(ip),
			ExpiresAt: now.Add(s.refresh.TTL()),
			IsActive:  true,
		})
	})
	if err != nil {
		return nil, err
	}

	return &RefreshResult{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.users.DB().WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}

// RequestPasswordReset opens a PENDING request for an admin to process;
// users cannot reset their own password without one.
func (s *Service) RequestPasswordReset(ctx context.Context, req RequestPasswordResetRequest) error {
	user, err := s.users.GetByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.users.DB().WithContext(ctx).Create(&domain.PasswordResetRequest{
		UserID:        user.ID,
		PhoneNumber:   user.PhoneNumber,
		RequestReason: req.Reason,
		Status:        domain.ResetPending,
		ExpiresAt:     time.Now().Add(resetRequestTTL),
	}).Error
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) validatePhoneUnique(ctx context.Context, phone string) error {
	exists, err := s.users.ExistsByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if exists {
		return ErrPhoneAlreadyExists
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func nullableString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) DB() *gorm.DB { return r.db }

// -------------------- Admin sessions --------------------

func (r *SessionRepository) CreateAdminSessionIn(tx *gorm.DB, s *domain.AdminSession) error {
	return tx.Create(s).Error
}

// IsSessionActive backs the admin middleware: the token hash must match
// a live, unexpired session row.
func (r *SessionRepository) IsSessionActive(ctx context.Context, adminID int64, tokenHash string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.AdminSession{}).
		Where("admin_id = ? AND token_hash = ? AND is_active = ? AND expires_at > ?",
			adminID, tokenHash, true, now).
		Count(&count).Error
	return count > 0, err
}

func (r *SessionRepository) DeactivateAdminSessionIn(tx *gorm.DB, adminID int64, tokenHash, reason string) error {
	now := time.Now()
	return tx.Model(&domain.AdminSession{}).
		Where("admin_id = ? AND token_hash = ? AND is_active = ?", adminID, tokenHash, true).
		Updates(map[string]any{
			"is_active":          false,
			"termination_reason": reason,
			"terminated_at":      now,
		}).Error
}

// TerminateAdminSessionsIn deactivates every live session of one admin.
// Used on account deactivation and on explicit terminate-all.
func (r *SessionRepository) TerminateAdminSessionsIn(tx *gorm.DB, adminID int64, reason string) error {
	now := time.Now()
	return tx.Model(&domain.AdminSession{}).
		Where("admin_id = ? AND is_active = ?", adminID, true).
		Updates(map[string]any{
			"is_active":          false,
			"termination_reason": reason,
			"terminated_at":      now,
		}).Error
}

// -------------------- User sessions --------------------

func (r *SessionRepository) CreateUserSessionIn(tx *gorm.DB, s *domain.UserSession) error {
	return tx.Create(s).Error
}

func (r *SessionRepository) IsUserSessionActive(ctx context.Context, userID int64, tokenHash string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserSession{}).
		Where("user_id = ? AND token_hash = ? AND is_active = ? AND expires_at > ?",
			userID, tokenHash, true, now).
		Count(&count).Error
	return count > 0, err
}

func (r *SessionRepository) RotateUserSessionIn(tx *gorm.DB, userID int64, oldHash string, next *domain.UserSession) error {
	now := time.Now()
	if err := tx.Model(&domain.UserSession{}).
		Where("user_id = ? AND token_hash = ? AND is_active = ?", userID, oldHash, true).
		Updates(map[string]any{"is_active": false, "terminated_at": now}).Error; err != nil {
		return err
	}
	return tx.Create(next).Error
}

// TerminateUserSessionsIn is the suspension side effect: a suspended
// user's refresh tokens all die in the same transaction.
func (r *SessionRepository) TerminateUserSessionsIn(tx *gorm.DB, userID int64) error {
	now := time.Now()
	return tx.Model(&domain.UserSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Updates(map[string]any{"is_active": false, "terminated_at": now}).Error
}

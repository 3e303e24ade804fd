package notification

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB { return r.db }

// CreateIn writes through the caller's transaction handle so a
// notification commits or rolls back together with the state transition
// that produced it.
func (r *Repository) CreateIn(tx *gorm.DB, n *domain.Notification) error {
	return tx.Create(n).Error
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64, offset, limit int) ([]domain.Notification, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND status <> ?", userID, domain.NotificationDeleted)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []domain.Notification
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *Repository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND status = ?", userID, domain.NotificationUnread).
		Count(&count).Error
	return count, err
}

func (r *Repository) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]any{"status": domain.NotificationRead, "read_at": now}).Error
}

func (r *Repository) MarkAllAsRead(ctx context.Context, userID int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND status = ?", userID, domain.NotificationUnread).
		Updates(map[string]any{"status": domain.NotificationRead, "read_at": now}).Error
}

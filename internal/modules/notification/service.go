package notification

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/pkg/pagination"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateIn persists a notification inside the caller's transaction.
// Verification transitions call this so the status change and its
// notification commit or roll back together.
func (s *Service) CreateIn(tx *gorm.DB, userID int64, t domain.NotificationType, title, message string, data map[string]any) error {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		raw = b
	}

	return s.repo.CreateIn(tx, &domain.Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
		Data:    raw,
		Status:  domain.NotificationUnread,
	})
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, page, limit int) ([]domain.Notification, pagination.Meta, error) {
	p := pagination.Normalize(page, limit)

	list, total, err := s.repo.GetByUserID(ctx, userID, p.Offset, p.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return list, pagination.NewMeta(total, p), nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

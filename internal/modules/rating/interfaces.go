package rating

import (
	"context"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/modules/activity"
)

type UserRepositoryInterface interface {
	DB() *gorm.DB
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type AdminRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.AdminUser, error)
}

type Notifier interface {
	CreateIn(tx *gorm.DB, userID int64, t domain.NotificationType, title, message string, data map[string]any) error
}

type AuditLogger interface {
	LogIn(tx *gorm.DB, e activity.Entry) error
}

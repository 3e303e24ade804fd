package adminauth

import (
	"context"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/modules/activity"
)

type AdminRepositoryInterface interface {
	DB() *gorm.DB
	Create(ctx context.Context, a *domain.AdminUser) error
	GetByID(ctx context.Context, id int64) (*domain.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]domain.AdminUser, error)
}

type SessionRepositoryInterface interface {
	CreateAdminSessionIn(tx *gorm.DB, s *domain.AdminSession) error
	DeactivateAdminSessionIn(tx *gorm.DB, adminID int64, tokenHash, reason string) error
	TerminateAdminSessionsIn(tx *gorm.DB, adminID int64, reason string) error
}

type AuditLogger interface {
	LogIn(tx *gorm.DB, e activity.Entry) error
}

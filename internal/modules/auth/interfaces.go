package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
)

type UserRepositoryInterface interface {
	DB() *gorm.DB
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
}

type SessionRepositoryInterface interface {
	CreateUserSessionIn(tx *gorm.DB, s *domain.UserSession) error
	RotateUserSessionIn(tx *gorm.DB, userID int64, oldHash string, next *domain.UserSession) error
}

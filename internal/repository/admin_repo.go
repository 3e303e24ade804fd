package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) DB() *gorm.DB { return r.db }

func (r *AdminRepository) Create(ctx context.Context, a *domain.AdminUser) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	var a domain.AdminUser
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	var a domain.AdminUser
	if err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.AdminUser{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&count).Error
	return count > 0, err
}

func (r *AdminRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	var admins []domain.AdminUser
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&admins).Error
	return admins, err
}

func (r *AdminRepository) Update(ctx context.Context, a *domain.AdminUser) error {
	return r.db.WithContext(ctx).Save(a).Error
}

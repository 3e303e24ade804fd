package activity

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
)

// Repository is append-only on purpose: it exposes Create and reads,
// nothing else. Fixing a wrong entry means writing a compensating one.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB { return r.db }

func (r *Repository) CreateIn(tx *gorm.DB, entry *domain.AdminActivityLog) error {
	return tx.Create(entry).Error
}

type ListFilter struct {
	AdminID    *int64
	ActionType *domain.AdminActionType
	From       *time.Time
	To         *time.Time
}

func (r *Repository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]domain.AdminActivityLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.AdminActivityLog{})

	if filter.AdminID != nil {
		q = q.Where("admin_id = ?", *filter.AdminID)
	}
	if filter.ActionType != nil {
		q = q.Where("action_type = ?", *filter.ActionType)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []domain.AdminActivityLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

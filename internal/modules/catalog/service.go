package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/pkg/pagination"
)

// Service is a deliberately small listing layer: products and services
// exist mainly as rating targets and photo carriers.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) CreateProduct(ctx context.Context, memberID int64, req CreateProductRequest) (*domain.Product, error) {
	if err := s.requireMember(ctx, memberID); err != nil {
		return nil, err
	}

	product := &domain.Product{
		MemberID:    memberID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		IsActive:    true,
	}
	if req.PhotoURL != "" {
		product.PhotoURL = &req.PhotoURL
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) CreateService(ctx context.Context, memberID int64, req CreateServiceRequest) (*domain.Service, error) {
	if err := s.requireMember(ctx, memberID); err != nil {
		return nil, err
	}

	service := &domain.Service{
		MemberID:    memberID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PriceType:   req.PriceType,
		IsActive:    true,
	}
	if req.PhotoURL != "" {
		service.PhotoURL = &req.PhotoURL
	}
	if err := s.db.WithContext(ctx).Create(service).Error; err != nil {
		return nil, err
	}
	return service, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	var service domain.Service
	if err := s.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

func (s *Service) ListMemberProducts(ctx context.Context, memberID int64, params pagination.Params) ([]domain.Product, pagination.Meta, error) {
	q := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("member_id = ? AND is_active = ?", memberID, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var products []domain.Product
	if err := q.Order("created_at desc").
		Offset(params.Offset).Limit(params.Limit).
		Find(&products).Error; err != nil {
		return nil, pagination.Meta{}, err
	}
	return products, pagination.NewMeta(total, params), nil
}

func (s *Service) ListMemberServices(ctx context.Context, memberID int64, params pagination.Params) ([]domain.Service, pagination.Meta, error) {
	q := s.db.WithContext(ctx).Model(&domain.Service{}).
		Where("member_id = ? AND is_active = ?", memberID, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var services []domain.Service
	if err := q.Order("created_at desc").
		Offset(params.Offset).Limit(params.Limit).
		Find(&services).Error; err != nil {
		return nil, pagination.Meta{}, err
	}
	return services, pagination.NewMeta(total, params), nil
}

// DeactivateProduct soft-deletes: the row stays for rating history, the
// listing leaves public lists.
func (s *Service) DeactivateProduct(ctx context.Context, memberID, productID int64) error {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.MemberID != memberID {
		return ErrNotOwner
	}
	return s.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", productID).
		Update("is_active", false).Error
}

func (s *Service) DeactivateService(ctx context.Context, memberID, serviceID int64) error {
	service, err := s.GetService(ctx, serviceID)
	if err != nil {
		return err
	}
	if service.MemberID != memberID {
		return ErrNotOwner
	}
	return s.db.WithContext(ctx).
		Model(&domain.Service{}).
		Where("id = ?", serviceID).
		Update("is_active", false).Error
}

func (s *Service) requireMember(ctx context.Context, userID int64) error {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotMember
		}
		return err
	}
	if user.UserType != domain.UserTypeMember {
		return ErrNotMember
	}
	return nil
}

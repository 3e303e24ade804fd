package rating

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/modules/activity"
	"github.com/MHYAnate/rootafapi/internal/pkg/pagination"
)

// Service owns rating submission, admin moderation and the aggregate
// recompute. Aggregates are never incremented in place: every event
// recalculates them from the ACTIVE ratings inside the same
// transaction, so hide/restore keeps them exact.
type Service struct {
	users  UserRepositoryInterface
	admins AdminRepositoryInterface
	notifs Notifier
	audit  AuditLogger
}

func NewService(users UserRepositoryInterface, admins AdminRepositoryInterface, notifs Notifier, audit AuditLogger) *Service {
	return &Service{users: users, admins: admins, notifs: notifs, audit: audit}
}

func (s *Service) Create(ctx context.Context, clientID int64, req CreateRatingRequest) (*domain.Rating, error) {
	// The verified gate upstream admits members too; only clients rate.
	caller, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if caller.UserType != domain.UserTypeClient {
		return nil, ErrClientsOnly
	}

	member, err := s.users.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if member.UserType != domain.UserTypeMember {
		return nil, ErrMemberNotFound
	}
	if clientID == req.MemberID {
		return nil, ErrOwnListing
	}

	category := domain.RatingCategory(req.RatingCategory)
	if err := s.validateTarget(ctx, category, member.ID, req.ProductID, req.ServiceID); err != nil {
		return nil, err
	}

	rating := &domain.Rating{
		ClientID:            clientID,
		MemberID:            req.MemberID,
		RatingCategory:      category,
		ProductID:           req.ProductID,
		ServiceID:           req.ServiceID,
		OverallRating:       req.OverallRating,
		QualityRating:       req.QualityRating,
		CommunicationRating: req.CommunicationRating,
		ValueRating:         req.ValueRating,
		TimelinessRating:    req.TimelinessRating,
		ReviewTitle:         req.ReviewTitle,
		ReviewText:          req.ReviewText,
		Status:              domain.RatingActive,
	}

	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Uniqueness is one rating per (client, member, category, target),
		// checked inside the transaction so concurrent submissions cannot
		// both pass.
		dup := tx.Model(&domain.Rating{}).
			Where("client_id = ? AND member_id = ? AND rating_category = ?", clientID, req.MemberID, category)
		if req.ProductID != nil {
			dup = dup.Where("product_id = ?", *req.ProductID)
		}
		if req.ServiceID != nil {
			dup = dup.Where("service_id = ?", *req.ServiceID)
		}
		var count int64
		if err := dup.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRating
		}

		if err := tx.Create(rating).Error; err != nil {
			return err
		}

		if err := s.recomputeIn(tx, rating); err != nil {
			return err
		}

		return s.notifs.CreateIn(tx, req.MemberID, domain.NotifNewRating,
			"New Rating Received",
			fmt.Sprintf("You received a new %d-star rating.", req.OverallRating),
			map[string]any{"rating_id": rating.ID},
		)
	})
	if err != nil {
		return nil, err
	}

	return rating, nil
}

func (s *Service) validateTarget(ctx context.Context, category domain.RatingCategory, memberID int64, productID, serviceID *int64) error {
	db := s.users.DB().WithContext(ctx)

	switch category {
	case domain.RatingCategoryProduct:
		if productID == nil || serviceID != nil {
			return ErrInvalidTargetPair
		}
		var product domain.Product
		if err := db.First(&product, *productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTargetNotFound
			}
			return err
		}
		if product.MemberID != memberID {
			return ErrTargetMismatch
		}
	case domain.RatingCategoryService:
		if serviceID == nil || productID != nil {
			return ErrInvalidTargetPair
		}
		var service domain.Service
		if err := db.First(&service, *serviceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTargetNotFound
			}
			return err
		}
		if service.MemberID != memberID {
			return ErrTargetMismatch
		}
	case domain.RatingCategoryGeneral:
		if productID != nil || serviceID != nil {
			return ErrInvalidTargetPair
		}
	}
	return nil
}

// HideRating moderates a rating out of the public aggregates.
func (s *Service) HideRating(ctx context.Context, ratingID, adminID int64, reason string) error {
	if err := s.gateManageContent(ctx, adminID); err != nil {
		return err
	}

	rating, err := s.get(ctx, ratingID)
	if err != nil {
		return err
	}

	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Rating{}).Where("id = ?", ratingID).Updates(map[string]any{
			"status":             domain.RatingHidden,
			"hidden_by_admin_id": adminID,
		}).Error; err != nil {
			return err
		}

		if err := s.recomputeIn(tx, rating); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     adminID,
			ActionType:  domain.ActionRatingHidden,
			Description: fmt.Sprintf("Hid rating %d: %s", ratingID, reason),
			TargetType:  "rating",
			TargetID:    ratingID,
			Additional:  map[string]any{"reason": reason},
		})
	})
}

func (s *Service) RestoreRating(ctx context.Context, ratingID, adminID int64) error {
	if err := s.gateManageContent(ctx, adminID); err != nil {
		return err
	}

	rating, err := s.get(ctx, ratingID)
	if err != nil {
		return err
	}

	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Rating{}).Where("id = ?", ratingID).Updates(map[string]any{
			"status":             domain.RatingActive,
			"hidden_by_admin_id": nil,
		}).Error; err != nil {
			return err
		}

		if err := s.recomputeIn(tx, rating); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     adminID,
			ActionType:  domain.ActionRatingRestored,
			Description: fmt.Sprintf("Restored rating %d", ratingID),
			TargetType:  "rating",
			TargetID:    ratingID,
		})
	})
}

func (s *Service) gateManageContent(ctx context.Context, adminID int64) error {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}
	if !admin.IsActive || !admin.CanManageContent {
		return ErrForbidden
	}
	return nil
}

func (s *Service) get(ctx context.Context, ratingID int64) (*domain.Rating, error) {
	var rating domain.Rating
	if err := s.users.DB().WithContext(ctx).First(&rating, ratingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

// -------------------- Aggregate recompute --------------------

// recomputeIn refreshes the member aggregates, and the product or
// service aggregates when the rating targets one.
func (s *Service) recomputeIn(tx *gorm.DB, rating *domain.Rating) error {
	if err := s.recomputeMemberIn(tx, rating.MemberID); err != nil {
		return err
	}
	if rating.ProductID != nil {
		if err := s.recomputeListingIn(tx, &domain.Product{}, "product_id", *rating.ProductID); err != nil {
			return err
		}
	}
	if rating.ServiceID != nil {
		if err := s.recomputeListingIn(tx, &domain.Service{}, "service_id", *rating.ServiceID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) recomputeMemberIn(tx *gorm.DB, memberID int64) error {
	var stars []int
	if err := tx.Model(&domain.Rating{}).
		Where("member_id = ? AND status = ?", memberID, domain.RatingActive).
		Pluck("overall_rating", &stars).Error; err != nil {
		return err
	}

	counts := [6]int{}
	sum := 0
	for _, star := range stars {
		if star >= 1 && star <= 5 {
			counts[star]++
		}
		sum += star
	}

	avg := 0.0
	if len(stars) > 0 {
		avg = round1(float64(sum) / float64(len(stars)))
	}

	return tx.Model(&domain.MemberProfile{}).
		Where("user_id = ?", memberID).
		Updates(map[string]any{
			"average_rating":   avg,
			"total_ratings":    len(stars),
			"one_star_count":   counts[1],
			"two_star_count":   counts[2],
			"three_star_count": counts[3],
			"four_star_count":  counts[4],
			"five_star_count":  counts[5],
		}).Error
}

func (s *Service) recomputeListingIn(tx *gorm.DB, model any, column string, targetID int64) error {
	var stars []int
	if err := tx.Model(&domain.Rating{}).
		Where(column+" = ? AND status = ?", targetID, domain.RatingActive).
		Pluck("overall_rating", &stars).Error; err != nil {
		return err
	}

	sum := 0
	for _, star := range stars {
		sum += star
	}
	avg := 0.0
	if len(stars) > 0 {
		avg = round1(float64(sum) / float64(len(stars)))
	}

	return tx.Model(model).
		Where("id = ?", targetID).
		Updates(map[string]any{
			"average_rating": avg,
			"total_ratings":  len(stars),
		}).Error
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// -------------------- Reads --------------------

// ListForMember returns the ACTIVE ratings of a member, newest first,
// with the denormalized summary block.
func (s *Service) ListForMember(ctx context.Context, memberID int64, params pagination.Params) ([]domain.Rating, *MemberRatingSummary, pagination.Meta, error) {
	db := s.users.DB().WithContext(ctx)

	q := db.Model(&domain.Rating{}).
		Where("member_id = ? AND status = ?", memberID, domain.RatingActive)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, pagination.Meta{}, err
	}

	var ratings []domain.Rating
	if err := q.Order("created_at desc").
		Offset(params.Offset).Limit(params.Limit).
		Find(&ratings).Error; err != nil {
		return nil, nil, pagination.Meta{}, err
	}

	var profile domain.MemberProfile
	summary := &MemberRatingSummary{}
	err := db.Where("user_id = ?", memberID).First(&profile).Error
	if err == nil {
		summary = &MemberRatingSummary{
			AverageRating:  profile.AverageRating,
			TotalRatings:   profile.TotalRatings,
			OneStarCount:   profile.OneStarCount,
			TwoStarCount:   profile.TwoStarCount,
			ThreeStarCount: profile.ThreeStarCount,
			FourStarCount:  profile.FourStarCount,
			FiveStarCount:  profile.FiveStarCount,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pagination.Meta{}, err
	}

	return ratings, summary, pagination.NewMeta(total, params), nil
}

// ListByClient returns all ratings a client has submitted, regardless
// of moderation status; clients keep seeing their own hidden ratings.
func (s *Service) ListByClient(ctx context.Context, clientID int64, params pagination.Params) ([]domain.Rating, pagination.Meta, error) {
	q := s.users.DB().WithContext(ctx).
		Model(&domain.Rating{}).
		Where("client_id = ?", clientID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var ratings []domain.Rating
	if err := q.Order("created_at desc").
		Offset(params.Offset).Limit(params.Limit).
		Find(&ratings).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	return ratings, pagination.NewMeta(total, params), nil
}

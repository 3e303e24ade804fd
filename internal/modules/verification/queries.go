package verification

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/pkg/pagination"
)

// UserDetail bundles everything an admin reviews on one screen.
type UserDetail struct {
	User          domain.User                   `json:"user"`
	Documents     []domain.VerificationDocument `json:"documents"`
	MemberProfile *domain.MemberProfile         `json:"member_profile,omitempty"`
	ClientProfile *domain.ClientProfile         `json:"client_profile,omitempty"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	ByStatus              map[string]int64 `json:"by_status"`
	ByUserType            map[string]int64 `json:"by_user_type"`
	PendingPasswordResets int64            `json:"pending_password_resets"`
	AvgVerificationHours  float64          `json:"avg_verification_hours"`
}

// ListPending returns the review queue: PENDING and RESUBMITTED users,
// oldest submission first. userType filters to MEMBER or CLIENT when set.
func (s *Service) ListPending(ctx context.Context, userType string, params pagination.Params) ([]domain.User, pagination.Meta, error) {
	return s.listByStatuses(ctx, []domain.VerificationStatus{
		domain.VerificationPending, domain.VerificationResubmitted,
	}, userType, params)
}

func (s *Service) ListUnderReview(ctx context.Context, userType string, params pagination.Params) ([]domain.User, pagination.Meta, error) {
	return s.listByStatuses(ctx, []domain.VerificationStatus{
		domain.VerificationUnderReview,
	}, userType, params)
}

func (s *Service) listByStatuses(ctx context.Context, statuses []domain.VerificationStatus, userType string, params pagination.Params) ([]domain.User, pagination.Meta, error) {
	q := s.users.DB().WithContext(ctx).
		Model(&domain.User{}).
		Where("verification_status IN ?", statuses)
	if userType != "" {
		q = q.Where("user_type = ?", userType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var users []domain.User
	if err := q.Order("verification_submitted_at asc").
		Offset(params.Offset).Limit(params.Limit).
		Find(&users).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	return users, pagination.NewMeta(total, params), nil
}

func (s *Service) GetUserDetail(ctx context.Context, userID int64) (*UserDetail, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	detail := &UserDetail{User: *user}

	if err := s.users.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at asc").
		Find(&detail.Documents).Error; err != nil {
		return nil, err
	}

	switch user.UserType {
	case domain.UserTypeMember:
		var profile domain.MemberProfile
		err = s.users.DB().WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
		if err == nil {
			detail.MemberProfile = &profile
		}
	case domain.UserTypeClient:
		var profile domain.ClientProfile
		err = s.users.DB().WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
		if err == nil {
			detail.ClientProfile = &profile
		}
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return detail, nil
}

func (s *Service) ListPasswordResetRequests(ctx context.Context, status string, params pagination.Params) ([]domain.PasswordResetRequest, pagination.Meta, error) {
	q := s.users.DB().WithContext(ctx).Model(&domain.PasswordResetRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var requests []domain.PasswordResetRequest
	if err := q.Order("created_at asc").
		Offset(params.Offset).Limit(params.Limit).
		Find(&requests).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	return requests, pagination.NewMeta(total, params), nil
}

// GetStats computes the dashboard counters. Average turnaround covers
// accounts verified in the last 30 days with both timestamps present.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	db := s.users.DB().WithContext(ctx)
	stats := &Stats{
		ByStatus:   make(map[string]int64),
		ByUserType: make(map[string]int64),
	}

	type group struct {
		Key   string
		Count int64
	}

	var byStatus []group
	if err := db.Model(&domain.User{}).
		Select("verification_status as key, count(*) as count").
		Group("verification_status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, g := range byStatus {
		stats.ByStatus[g.Key] = g.Count
	}

	var byType []group
	if err := db.Model(&domain.User{}).
		Select("user_type as key, count(*) as count").
		Group("user_type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, g := range byType {
		stats.ByUserType[g.Key] = g.Count
	}

	if err := db.Model(&domain.PasswordResetRequest{}).
		Where("status = ?", domain.ResetPending).
		Count(&stats.PendingPasswordResets).Error; err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -30)
	var verified []domain.User
	if err := db.Model(&domain.User{}).
		Where("verification_status = ? AND verified_at >= ?", domain.VerificationVerified, since).
		Where("verification_submitted_at IS NOT NULL AND verified_at IS NOT NULL").
		Find(&verified).Error; err != nil {
		return nil, err
	}
	if len(verified) > 0 {
		var totalHours float64
		for _, u := range verified {
			totalHours += u.VerifiedAt.Sub(*u.VerificationSubmittedAt).Hours()
		}
		stats.AvgVerificationHours = totalHours / float64(len(verified))
	}

	return stats, nil
}

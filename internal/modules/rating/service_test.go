package rating

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/database"
	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/modules/activity"
	"github.com/MHYAnate/rootafapi/internal/modules/notification"
	"github.com/MHYAnate/rootafapi/internal/repository"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	users := repository.NewUserRepository(db)
	admins := repository.NewAdminRepository(db)
	notifs := notification.NewService(notification.NewRepository(db))
	audit := activity.NewService(activity.NewRepository(db))

	return NewService(users, admins, notifs, audit), db
}

func seedMember(t *testing.T, db *gorm.DB, phone string) *domain.User {
	t.Helper()
	member := &domain.User{
		PhoneNumber:        phone,
		PasswordHash:       "x",
		FullName:           "Member",
		UserType:           domain.UserTypeMember,
		VerificationStatus: domain.VerificationVerified,
		IsActive:           true,
	}
	require.NoError(t, db.Create(member).Error)
	require.NoError(t, db.Create(&domain.MemberProfile{
		UserID:       member.ID,
		ProviderType: "FARMER",
		State:        "Lagos",
	}).Error)
	return member
}

func seedClient(t *testing.T, db *gorm.DB, phone string) *domain.User {
	t.Helper()
	client := &domain.User{
		PhoneNumber:        phone,
		PasswordHash:       "x",
		FullName:           "Client",
		UserType:           domain.UserTypeClient,
		VerificationStatus: domain.VerificationVerified,
		IsActive:           true,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func generalRating(memberID int64, stars int) CreateRatingRequest {
	return CreateRatingRequest{
		MemberID:       memberID,
		RatingCategory: string(domain.RatingCategoryGeneral),
		OverallRating:  stars,
	}
}

func TestCreateRecomputesMemberAggregates(t *testing.T) {
	svc, db := newTestService(t)
	member := seedMember(t, db, "08010000000")

	stars := []int{5, 5, 4, 3, 5}
	for i, star := range stars {
		client := seedClient(t, db, fmt.Sprintf("0802000000%d", i))
		_, err := svc.Create(context.Background(), client.ID, generalRating(member.ID, star))
		require.NoError(t, err)
	}

	var profile domain.MemberProfile
	require.NoError(t, db.Where("user_id = ?", member.ID).First(&profile).Error)
	assert.Equal(t, 4.4, profile.AverageRating)
	assert.Equal(t, 5, profile.TotalRatings)
	assert.Equal(t, 1, profile.ThreeStarCount)
	assert.Equal(t, 1, profile.FourStarCount)
	assert.Equal(t, 3, profile.FiveStarCount)

	// each submission notifies the member
	var notifs int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", member.ID, domain.NotifNewRating).
		Count(&notifs).Error)
	assert.EqualValues(t, 5, notifs)
}

func TestCreateRequiresClient(t *testing.T) {
	svc, db := newTestService(t)
	target := seedMember(t, db, "08010000000")
	rater := seedMember(t, db, "08010000001")

	_, err := svc.Create(context.Background(), rater.ID, generalRating(target.ID, 5))
	assert.ErrorIs(t, err, ErrClientsOnly)

	var count int64
	require.NoError(t, db.Model(&domain.Rating{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateDuplicateConflicts(t *testing.T) {
	svc, db := newTestService(t)
	member := seedMember(t, db, "08010000000")
	client := seedClient(t, db, "08020000000")

	_, err := svc.Create(context.Background(), client.ID, generalRating(member.ID, 5))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), client.ID, generalRating(member.ID, 3))
	assert.ErrorIs(t, err, ErrDuplicateRating)

	// the failed attempt leaves aggregates untouched
	var profile domain.MemberProfile
	require.NoError(t, db.Where("user_id = ?", member.ID).First(&profile).Error)
	assert.Equal(t, 5.0, profile.AverageRating)
	assert.Equal(t, 1, profile.TotalRatings)
}

func TestCreateProductRating(t *testing.T) {
	svc, db := newTestService(t)
	member := seedMember(t, db, "08010000000")
	client := seedClient(t, db, "08020000000")

	product := &domain.Product{MemberID: member.ID, Name: "Yam", Price: 1000, IsActive: true}
	require.NoError(t, db.Create(product).Error)

	req := CreateRatingRequest{
		MemberID:       member.ID,
		RatingCategory: string(domain.RatingCategoryProduct),
		ProductID:      &product.ID,
		OverallRating:  4,
	}
	_, err := svc.Create(context.Background(), client.ID, req)
	require.NoError(t, err)

	var got domain.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.Equal(t, 1, got.TotalRatings)

	t.Run("target owned by a different member", func(t *testing.T) {
		other := seedMember(t, db, "08030000000")
		bad := req
		bad.MemberID = other.ID
		_, err := svc.Create(context.Background(), client.ID, bad)
		assert.ErrorIs(t, err, ErrTargetMismatch)
	})

	t.Run("category and target must match", func(t *testing.T) {
		bad := generalRating(member.ID, 4)
		bad.ProductID = &product.ID
		_, err := svc.Create(context.Background(), client.ID, bad)
		assert.ErrorIs(t, err, ErrInvalidTargetPair)
	})
}

func TestHideAndRestoreRecompute(t *testing.T) {
	svc, db := newTestService(t)
	member := seedMember(t, db, "08010000000")

	moderator := &domain.AdminUser{
		Username: "mod", PasswordHash: "x", FullName: "Mod",
		Role:         domain.RoleContentAdmin,
		Capabilities: domain.DefaultCapabilities(domain.RoleContentAdmin),
		IsActive:     true,
	}
	require.NoError(t, db.Create(moderator).Error)

	clientA := seedClient(t, db, "08020000001")
	clientB := seedClient(t, db, "08020000002")

	first, err := svc.Create(context.Background(), clientA.ID, generalRating(member.ID, 5))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), clientB.ID, generalRating(member.ID, 1))
	require.NoError(t, err)

	var profile domain.MemberProfile
	require.NoError(t, db.Where("user_id = ?", member.ID).First(&profile).Error)
	assert.Equal(t, 3.0, profile.AverageRating)

	require.NoError(t, svc.HideRating(context.Background(), first.ID, moderator.ID, "spam"))

	require.NoError(t, db.Where("user_id = ?", member.ID).First(&profile).Error)
	assert.Equal(t, 1.0, profile.AverageRating)
	assert.Equal(t, 1, profile.TotalRatings)

	var audits int64
	require.NoError(t, db.Model(&domain.AdminActivityLog{}).
		Where("action_type = ?", domain.ActionRatingHidden).
		Count(&audits).Error)
	assert.EqualValues(t, 1, audits)

	require.NoError(t, svc.RestoreRating(context.Background(), first.ID, moderator.ID))

	require.NoError(t, db.Where("user_id = ?", member.ID).First(&profile).Error)
	assert.Equal(t, 3.0, profile.AverageRating)
	assert.Equal(t, 2, profile.TotalRatings)

	t.Run("moderation needs canManageContent", func(t *testing.T) {
		reporter := &domain.AdminUser{
			Username: "reporter", PasswordHash: "x", FullName: "R",
			Role:         domain.RoleReportAdmin,
			Capabilities: domain.DefaultCapabilities(domain.RoleReportAdmin),
			IsActive:     true,
		}
		require.NoError(t, db.Create(reporter).Error)

		err := svc.HideRating(context.Background(), first.ID, reporter.ID, "nope")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

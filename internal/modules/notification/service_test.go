package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MHYAnate/rootafapi/internal/database"
	"github.com/MHYAnate/rootafapi/internal/domain"
)

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repo := NewRepository(db)
	return NewService(repo), repo
}

func TestNotificationLifecycle(t *testing.T) {
	svc, repo := newTestService(t)
	const userID = int64(7)

	require.NoError(t, svc.CreateIn(repo.DB(), userID, domain.NotifVerificationApproved,
		"🎉 Account Verified!", "Welcome.", nil))
	require.NoError(t, svc.CreateIn(repo.DB(), userID, domain.NotifNewRating,
		"New Rating Received", "5 stars.", map[string]any{"rating_id": 1}))
	require.NoError(t, svc.CreateIn(repo.DB(), int64(99), domain.NotifNewRating,
		"New Rating Received", "other user", nil))

	count, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	list, meta, err := svc.GetUserNotifications(context.Background(), userID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, meta.Total)
	require.Len(t, list, 2)

	require.NoError(t, svc.MarkAsRead(context.Background(), list[0].ID, userID))

	count, err = svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.MarkAllAsRead(context.Background(), userID))

	count, err = svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// soft-deleted rows vanish from the list
	require.NoError(t, repo.DB().Model(&domain.Notification{}).
		Where("id = ?", list[0].ID).
		Update("status", domain.NotificationDeleted).Error)

	list, meta, err = svc.GetUserNotifications(context.Background(), userID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, meta.Total)
	require.Len(t, list, 1)
}

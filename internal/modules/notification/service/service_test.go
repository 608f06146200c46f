package service_test

import (
	"context"
	"testing"

	"anoa.com/wismacare/internal/entity"
	notifRepo "anoa.com/wismacare/internal/modules/notification/repository"
	notifService "anoa.com/wismacare/internal/modules/notification/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (notifService.NotificationService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Notification{}))

	svc := notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil)
	return svc, db
}

func notify(t *testing.T, svc notifService.NotificationService, userID uuid.UUID, message string) *entity.Notification {
	n := &entity.Notification{
		UserID:  userID,
		Type:    entity.NotificationAssigned,
		Message: message,
	}
	require.NoError(t, svc.CreateNotification(context.Background(), n))
	return n
}

func TestCreateAndListNotifications(t *testing.T) {
	svc, _ := setupService(t)
	userID := uuid.New()
	otherID := uuid.New()

	notify(t, svc, userID, "assigned to request A")
	notify(t, svc, userID, "assigned to request B")
	notify(t, svc, otherID, "not yours")

	list, err := svc.GetNotifications(context.Background(), userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.Equal(t, userID, n.UserID)
		assert.False(t, n.IsRead)
	}
}

func TestUnreadCountAndMarkAsRead(t *testing.T) {
	svc, _ := setupService(t)
	userID := uuid.New()

	first := notify(t, svc, userID, "one")
	notify(t, svc, userID, "two")

	count, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkAsRead(context.Background(), first.ID))

	count, err = svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkAllAsRead(t *testing.T) {
	svc, _ := setupService(t)
	userID := uuid.New()
	otherID := uuid.New()

	notify(t, svc, userID, "one")
	notify(t, svc, userID, "two")
	notify(t, svc, otherID, "theirs")

	require.NoError(t, svc.MarkAllAsRead(context.Background(), userID))

	count, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	otherCount, err := svc.UnreadCount(context.Background(), otherID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherCount)
}

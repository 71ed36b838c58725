package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeNotificationStore struct {
	seq           byte
	notifications map[primitive.ObjectID]*models.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: make(map[primitive.ObjectID]*models.Notification)}
}

func (s *fakeNotificationStore) CreateNotification(_ context.Context, notif *models.Notification) error {
	s.seq++
	notif.ID = oid(200 + s.seq)
	notif.CreatedAt = time.Now()
	notif.ExpiresAt = notif.CreatedAt.Add(7 * 24 * time.Hour)
	stored := *notif
	s.notifications[notif.ID] = &stored
	return nil
}

func (s *fakeNotificationStore) GetUserNotifications(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	var out []models.Notification
	for _, notif := range s.notifications {
		if notif.UserID == userID {
			out = append(out, *notif)
		}
	}
	return out, nil
}

func (s *fakeNotificationStore) MarkAsRead(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	notif, ok := s.notifications[id]
	if !ok || notif.UserID != userID {
		return false, nil
	}
	notif.Read = true
	return true, nil
}

func (s *fakeNotificationStore) DeleteNotification(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	notif, ok := s.notifications[id]
	if !ok || notif.UserID != userID {
		return false, nil
	}
	delete(s.notifications, id)
	return true, nil
}

func (s *fakeNotificationStore) GetLatestNotificationByType(_ context.Context, userID primitive.ObjectID, notifType string) (*models.Notification, error) {
	var latest *models.Notification
	for _, notif := range s.notifications {
		if notif.UserID != userID || notif.Type != notifType {
			continue
		}
		if latest == nil || notif.CreatedAt.After(latest.CreatedAt) {
			copied := *notif
			latest = &copied
		}
	}
	return latest, nil
}

func (s *fakeNotificationStore) DeleteExpiredNotifications(_ context.Context) error {
	now := time.Now()
	for id, notif := range s.notifications {
		if !notif.ExpiresAt.After(now) {
			delete(s.notifications, id)
		}
	}
	return nil
}

func (s *fakeNotificationStore) byUser(userID primitive.ObjectID) []*models.Notification {
	var out []*models.Notification
	for _, notif := range s.notifications {
		if notif.UserID == userID {
			out = append(out, notif)
		}
	}
	return out
}

type emptyStaleSource struct{}

func (emptyStaleSource) GetStalePendingRequests(context.Context, time.Time) ([]models.FriendRequest, error) {
	return nil, nil
}

func TestMarkNotificationAsReadEnforcesOwnership(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store, emptyStaleSource{})

	owner := oid(1)
	intruder := oid(2)
	require.NoError(t, svc.CreateNotification(context.Background(), owner, "friend_request", "New Friend Request", "hi", nil))
	notifs := store.byUser(owner)
	require.Len(t, notifs, 1)
	notifID := notifs[0].ID

	err := svc.MarkNotificationAsRead(context.Background(), notifID, intruder)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.False(t, store.notifications[notifID].Read, "another user's attempt must not mutate the notification")

	require.NoError(t, svc.MarkNotificationAsRead(context.Background(), notifID, owner))
	assert.True(t, store.notifications[notifID].Read)
}

func TestDeleteNotificationEnforcesOwnership(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store, emptyStaleSource{})

	owner := oid(1)
	intruder := oid(2)
	require.NoError(t, svc.CreateNotification(context.Background(), owner, "friend_request", "New Friend Request", "hi", nil))
	notifID := store.byUser(owner)[0].ID

	err := svc.DeleteNotification(context.Background(), notifID, intruder)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.Contains(t, store.notifications, notifID, "another user's attempt must not delete the notification")

	require.NoError(t, svc.DeleteNotification(context.Background(), notifID, owner))
	assert.NotContains(t, store.notifications, notifID)
}

func TestMarkNotificationAsReadUnknownID(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationStore(), emptyStaleSource{})

	err := svc.MarkNotificationAsRead(context.Background(), oid(99), oid(1))
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestRemindStalePendingRequestsSkipsRecentReminder(t *testing.T) {
	store := newFakeNotificationStore()
	requestID := oid(50)
	receiver := oid(1)
	source := staleSourceWith(models.FriendRequest{ID: requestID, ReceiverID: receiver, Status: "pending"})
	svc := NewNotificationService(store, source)

	require.NoError(t, svc.RemindStalePendingRequests(context.Background()))
	require.Len(t, store.byUser(receiver), 1)

	// A second sweep inside the reminder window must not duplicate.
	require.NoError(t, svc.RemindStalePendingRequests(context.Background()))
	assert.Len(t, store.byUser(receiver), 1)
}

type fixedStaleSource struct {
	requests []models.FriendRequest
}

func staleSourceWith(requests ...models.FriendRequest) *fixedStaleSource {
	return &fixedStaleSource{requests: requests}
}

func (s *fixedStaleSource) GetStalePendingRequests(context.Context, time.Time) ([]models.FriendRequest, error) {
	return s.requests, nil
}

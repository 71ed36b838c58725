package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotificationNotFound is returned when a notification does not exist or
// does not belong to the acting user. The two cases are deliberately not
// distinguished, so IDs cannot be probed for existence.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationStore is the slice of the notification collection this service
// needs. *repository.NotificationRepository satisfies it.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
	DeleteNotification(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
	GetLatestNotificationByType(ctx context.Context, userID primitive.ObjectID, notifType string) (*models.Notification, error)
	DeleteExpiredNotifications(ctx context.Context) error
}

// StaleRequestSource supplies the pending requests the reminder sweep looks
// at. *repository.FriendRepository satisfies it.
type StaleRequestSource interface {
	GetStalePendingRequests(ctx context.Context, cutoff time.Time) ([]models.FriendRequest, error)
}

type NotificationService struct {
	repo       NotificationStore
	friendRepo StaleRequestSource
}

func NewNotificationService(repo NotificationStore, friendRepo StaleRequestSource) *NotificationService {
	return &NotificationService{
		repo:       repo,
		friendRepo: friendRepo,
	}
}

// CreateNotification logs a new notification for a user
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error {
	notif := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Read:     false,
		TargetID: targetID,
	}
	return s.repo.CreateNotification(ctx, notif)
}

// NotifyFriendRequest tells a user somebody wants to be their friend.
func (s *NotificationService) NotifyFriendRequest(ctx context.Context, receiverID primitive.ObjectID, senderName string, requestID primitive.ObjectID) error {
	return s.CreateNotification(ctx, receiverID, "friend_request",
		"New Friend Request",
		fmt.Sprintf("%s sent you a friend request.", senderName),
		&requestID,
	)
}

// NotifyRequestAccepted tells a sender their request was accepted.
func (s *NotificationService) NotifyRequestAccepted(ctx context.Context, senderID primitive.ObjectID, receiverName string) error {
	return s.CreateNotification(ctx, senderID, "friend_request_accepted",
		"Friend Request Accepted",
		fmt.Sprintf("%s accepted your friend request. You are now friends!", receiverName),
		nil,
	)
}

// GetUserNotifications returns all notifications for a user
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// MarkNotificationAsRead sets the "read" status of the user's own
// notification to true.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, notifID, userID primitive.ObjectID) error {
	matched, err := s.repo.MarkAsRead(ctx, notifID, userID)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteNotification deletes the user's own notification.
func (s *NotificationService) DeleteNotification(ctx context.Context, notifID, userID primitive.ObjectID) error {
	deleted, err := s.repo.DeleteNotification(ctx, notifID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteExpiredNotifications is called periodically by cron to drop old ones.
func (s *NotificationService) DeleteExpiredNotifications(ctx context.Context) error {
	return s.repo.DeleteExpiredNotifications(ctx)
}

// RemindStalePendingRequests nudges receivers about requests that have sat
// unanswered for more than three days, at most one reminder per request
// every three days.
func (s *NotificationService) RemindStalePendingRequests(ctx context.Context) error {
	cutoff := time.Now().Add(-3 * 24 * time.Hour)
	requests, err := s.friendRepo.GetStalePendingRequests(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to fetch stale requests: %w", err)
	}

	now := time.Now()
	for _, req := range requests {
		// One reminder type per request so repeats can be detected.
		key := fmt.Sprintf("stale_request_%s", req.ID.Hex())
		existing, err := s.repo.GetLatestNotificationByType(ctx, req.ReceiverID, key)
		if err == nil && existing != nil && now.Sub(existing.CreatedAt) < 3*24*time.Hour {
			continue
		}

		err = s.CreateNotification(ctx, req.ReceiverID, key,
			"Friend Request Waiting",
			"You have a friend request that has been waiting for a few days.",
			&req.ID,
		)
		if err != nil {
			logrus.WithError(err).Warnf("Failed to send stale request reminder for request %s", req.ID.Hex())
		}
	}

	return nil
}

package services

import (
	"context"
	"fmt"

	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendRequestStore is the slice of the friend_requests collection the
// lifecycle needs. *repository.FriendRepository satisfies it.
type FriendRequestStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	GetPendingBetween(ctx context.Context, userID1, userID2 primitive.ObjectID) (*models.FriendRequest, error)
	GetRequestsByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error)
	GetRequestsBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error
	DeleteRequest(ctx context.Context, id primitive.ObjectID) error
}

// RelationshipStore is the slice of the users collection the lifecycle
// mutates: the friend lists and the sent/pending request arrays.
// *repository.UserRepository satisfies it.
type RelationshipStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	RemoveFriend(ctx context.Context, userID1, userID2 primitive.ObjectID) error
	AddRequestPair(ctx context.Context, senderID, receiverID primitive.ObjectID) error
	RemoveRequestPair(ctx context.Context, senderID, receiverID primitive.ObjectID) error
}

// FriendService handles business logic for the friend-request lifecycle.
// It keeps the request documents and the relationship arrays on both user
// documents in step: a pending request always appears in the sender's sent
// list and the receiver's pending list, and accepting moves the pair into
// both friend lists.
type FriendService struct {
	friendRepo   FriendRequestStore
	userRepo     RelationshipStore
	notifService *NotificationService
}

// NewFriendService creates a new FriendService.
func NewFriendService(friendRepo FriendRequestStore, userRepo RelationshipStore, notifService *NotificationService) *FriendService {
	return &FriendService{
		friendRepo:   friendRepo,
		userRepo:     userRepo,
		notifService: notifService,
	}
}

// SendFriendRequest creates a new friend request and records it on both user
// documents.
func (s *FriendService) SendFriendRequest(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("cannot send a friend request to yourself")
	}

	sender, err := s.userRepo.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("could not load sender: %v", err)
	}
	receiver, err := s.userRepo.GetUserByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	for _, id := range sender.Friends {
		if id == receiverID {
			return nil, fmt.Errorf("already friends with this user")
		}
	}

	existing, err := s.friendRepo.GetPendingBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("a friend request between these users is already pending")
	}

	request := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
	}

	created, err := s.friendRepo.CreateRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.AddRequestPair(ctx, senderID, receiverID); err != nil {
		return nil, err
	}

	if err := s.notifService.NotifyFriendRequest(ctx, receiver.ID, sender.Username, created.ID); err != nil {
		logrus.WithError(err).Warn("Failed to notify receiver about friend request")
	}

	return created, nil
}

// CancelRequest lets the sender withdraw their own pending request.
func (s *FriendService) CancelRequest(ctx context.Context, requestID, senderID primitive.ObjectID) error {
	request, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("could not find request: %v", err)
	}

	if request.SenderID != senderID {
		return fmt.Errorf("only the sender can cancel a friend request")
	}
	if request.Status != "pending" {
		return fmt.Errorf("request already responded to")
	}

	if err := s.friendRepo.DeleteRequest(ctx, requestID); err != nil {
		return err
	}

	return s.userRepo.RemoveRequestPair(ctx, request.SenderID, request.ReceiverID)
}

// RespondToRequest lets the receiver accept or reject a pending request.
// Accepting makes the friendship symmetric on both user documents.
func (s *FriendService) RespondToRequest(ctx context.Context, requestID, receiverID primitive.ObjectID, accept bool) error {
	request, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("could not find request: %v", err)
	}

	if request.ReceiverID != receiverID {
		return fmt.Errorf("only the receiver can respond to a friend request")
	}
	if request.Status != "pending" {
		return fmt.Errorf("request already responded to")
	}

	status := "rejected"
	if accept {
		status = "accepted"
	}

	if err := s.friendRepo.UpdateRequestStatus(ctx, requestID, status); err != nil {
		return err
	}

	// The pending/sent pair is cleared regardless of the outcome.
	if err := s.userRepo.RemoveRequestPair(ctx, request.SenderID, request.ReceiverID); err != nil {
		return err
	}

	if accept {
		if err := s.userRepo.AddFriend(ctx, request.SenderID, request.ReceiverID); err != nil {
			return fmt.Errorf("failed to add friend to sender: %v", err)
		}
		if err := s.userRepo.AddFriend(ctx, request.ReceiverID, request.SenderID); err != nil {
			return fmt.Errorf("failed to add friend to receiver: %v", err)
		}

		receiver, err := s.userRepo.GetUserByID(ctx, receiverID)
		if err == nil {
			if err := s.notifService.NotifyRequestAccepted(ctx, request.SenderID, receiver.Username); err != nil {
				logrus.WithError(err).Warn("Failed to notify sender about accepted request")
			}
		}
	}

	return nil
}

// GetFriends returns the public projections of a user's friends.
func (s *FriendService) GetFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend IDs: %v", err)
	}

	if len(user.Friends) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}

	publicFriends := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		publicFriends = append(publicFriends, u.Public())
	}

	return publicFriends, nil
}

// GetPendingRequests fetches all pending requests addressed to the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.friendRepo.GetRequestsByReceiver(ctx, receiverID)
}

// GetSentRequests fetches all pending requests the user has sent.
func (s *FriendService) GetSentRequests(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.friendRepo.GetRequestsBySender(ctx, senderID)
}

// RemoveFriend dissolves the friendship in both directions. Removing a user
// who is not a friend is a no-op.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	return s.userRepo.RemoveFriend(ctx, userID, friendID)
}

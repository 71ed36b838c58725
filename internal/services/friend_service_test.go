package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRelationshipStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeRelationshipStore(users ...*models.User) *fakeRelationshipStore {
	store := &fakeRelationshipStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, user := range users {
		store.users[user.ID] = user
	}
	return store
}

func (s *fakeRelationshipStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id.Hex())
	}
	copied := *user
	return &copied, nil
}

func (s *fakeRelationshipStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (s *fakeRelationshipStore) AddFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID.Hex())
	}
	user.Friends = appendUnique(user.Friends, friendID)
	return nil
}

func (s *fakeRelationshipStore) RemoveFriend(_ context.Context, userID1, userID2 primitive.ObjectID) error {
	if user, ok := s.users[userID1]; ok {
		user.Friends = removeID(user.Friends, userID2)
	}
	if user, ok := s.users[userID2]; ok {
		user.Friends = removeID(user.Friends, userID1)
	}
	return nil
}

func (s *fakeRelationshipStore) AddRequestPair(_ context.Context, senderID, receiverID primitive.ObjectID) error {
	sender, ok := s.users[senderID]
	if !ok {
		return fmt.Errorf("user %s not found", senderID.Hex())
	}
	receiver, ok := s.users[receiverID]
	if !ok {
		return fmt.Errorf("user %s not found", receiverID.Hex())
	}
	sender.SentFriendRequests = appendUnique(sender.SentFriendRequests, receiverID)
	receiver.PendingFriendRequests = appendUnique(receiver.PendingFriendRequests, senderID)
	return nil
}

func (s *fakeRelationshipStore) RemoveRequestPair(_ context.Context, senderID, receiverID primitive.ObjectID) error {
	if sender, ok := s.users[senderID]; ok {
		sender.SentFriendRequests = removeID(sender.SentFriendRequests, receiverID)
	}
	if receiver, ok := s.users[receiverID]; ok {
		receiver.PendingFriendRequests = removeID(receiver.PendingFriendRequests, senderID)
	}
	return nil
}

func appendUnique(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

type fakeFriendRequestStore struct {
	seq      byte
	requests map[primitive.ObjectID]*models.FriendRequest
}

func newFakeFriendRequestStore() *fakeFriendRequestStore {
	return &fakeFriendRequestStore{requests: make(map[primitive.ObjectID]*models.FriendRequest)}
}

func (s *fakeFriendRequestStore) CreateRequest(_ context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	s.seq++
	stored := *req
	stored.ID = oid(100 + s.seq)
	stored.Status = "pending"
	stored.CreatedAt = time.Now()
	s.requests[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (s *fakeFriendRequestStore) GetRequestByID(_ context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s not found", id.Hex())
	}
	copied := *req
	return &copied, nil
}

func (s *fakeFriendRequestStore) GetPendingBetween(_ context.Context, userID1, userID2 primitive.ObjectID) (*models.FriendRequest, error) {
	for _, req := range s.requests {
		if req.Status != "pending" {
			continue
		}
		if (req.SenderID == userID1 && req.ReceiverID == userID2) ||
			(req.SenderID == userID2 && req.ReceiverID == userID1) {
			copied := *req
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeFriendRequestStore) GetRequestsByReceiver(_ context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	for _, req := range s.requests {
		if req.Status == "pending" && req.ReceiverID == receiverID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (s *fakeFriendRequestStore) GetRequestsBySender(_ context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	for _, req := range s.requests {
		if req.Status == "pending" && req.SenderID == senderID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (s *fakeFriendRequestStore) UpdateRequestStatus(_ context.Context, id primitive.ObjectID, status string) error {
	req, ok := s.requests[id]
	if !ok {
		return fmt.Errorf("request %s not found", id.Hex())
	}
	req.Status = status
	return nil
}

func (s *fakeFriendRequestStore) DeleteRequest(_ context.Context, id primitive.ObjectID) error {
	delete(s.requests, id)
	return nil
}

func (s *fakeFriendRequestStore) GetStalePendingRequests(_ context.Context, cutoff time.Time) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	for _, req := range s.requests {
		if req.Status == "pending" && req.CreatedAt.Before(cutoff) {
			out = append(out, *req)
		}
	}
	return out, nil
}

type friendFixture struct {
	service    *FriendService
	users      *fakeRelationshipStore
	requests   *fakeFriendRequestStore
	notifs     *fakeNotificationStore
	alice, bob primitive.ObjectID
}

func newFriendFixture() *friendFixture {
	alice := oid(1)
	bob := oid(2)
	users := newFakeRelationshipStore(
		&models.User{ID: alice, Username: "alice"},
		&models.User{ID: bob, Username: "bob"},
	)
	requests := newFakeFriendRequestStore()
	notifs := newFakeNotificationStore()
	notifService := NewNotificationService(notifs, requests)
	return &friendFixture{
		service:  NewFriendService(requests, users, notifService),
		users:    users,
		requests: requests,
		notifs:   notifs,
		alice:    alice,
		bob:      bob,
	}
}

func TestSendFriendRequestPopulatesBothArrays(t *testing.T) {
	f := newFriendFixture()

	created, err := f.service.SendFriendRequest(context.Background(), f.alice, f.bob)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "pending", created.Status)

	assert.Equal(t, []primitive.ObjectID{f.bob}, f.users.users[f.alice].SentFriendRequests)
	assert.Equal(t, []primitive.ObjectID{f.alice}, f.users.users[f.bob].PendingFriendRequests)
	assert.Empty(t, f.users.users[f.alice].Friends)
	assert.Empty(t, f.users.users[f.bob].Friends)

	// The receiver gets notified about the new request.
	require.Len(t, f.notifs.byUser(f.bob), 1)
	assert.Equal(t, "friend_request", f.notifs.byUser(f.bob)[0].Type)
}

func TestSendFriendRequestRejectsSelf(t *testing.T) {
	f := newFriendFixture()

	_, err := f.service.SendFriendRequest(context.Background(), f.alice, f.alice)
	assert.Error(t, err)
}

func TestSendFriendRequestRejectsDuplicate(t *testing.T) {
	f := newFriendFixture()

	_, err := f.service.SendFriendRequest(context.Background(), f.alice, f.bob)
	require.NoError(t, err)

	// Neither a repeat nor a reverse request may coexist with the pending one.
	_, err = f.service.SendFriendRequest(context.Background(), f.alice, f.bob)
	assert.Error(t, err)
	_, err = f.service.SendFriendRequest(context.Background(), f.bob, f.alice)
	assert.Error(t, err)
}

func TestSendFriendRequestRejectsExistingFriend(t *testing.T) {
	f := newFriendFixture()
	f.users.users[f.alice].Friends = []primitive.ObjectID{f.bob}
	f.users.users[f.bob].Friends = []primitive.ObjectID{f.alice}

	_, err := f.service.SendFriendRequest(context.Background(), f.alice, f.bob)
	assert.Error(t, err)
}

func TestAcceptRequestMovesPairIntoFriendsArrays(t *testing.T) {
	f := newFriendFixture()

	created, err := f.service.SendFriendRequest(context.Background(), f.alice, f.bob)
	require.NoError(t, err)

	require.NoError(t, f.service.RespondToRequest(context.Background(), created.ID, f.bob, true))

	// Mirror arrays are cleared and the friendship is symmetric.
	assert.Empty(t, f.users.users[f.alice].SentFriendRequests)
	assert.Empty(t, f.users.users[f.bob].PendingFriendRequests)
	assert.Equal(t, []primitive.ObjectID{f.bob}, f.users.users[f.alice].Friends)
	assert.Equal(t, []primitive.ObjectID{f.alice}, f.users.users[f.bob].Friends)

	assert.Equal(t, "accepted", f.requests.requests[created.ID].Status)

	// The sender hears back about the acceptance.
	accepted := false
	for _, notif := range f.notifs.byUser(f.alice) {
		if notif.Type == "friend_request_accepted" {
			accepted = true
		}
	}
	assert.True(t, accepted)
}

func TestRejectRequestClearsPairWithoutFriendship(t *testing.T) {
	f := newFriendFixture()

	created, err := f.service.SendFriendRequest(context.Background(), f.alice, f.bob)
	require.NoError(t, err)

	require.NoError(t, f.service.RespondToRequest(context.Background(), created.ID, f.bob, false))

	assert.Empty(t, f.users.users[f.alice].SentFriendRequests)
	assert.Empty(t, f.users.users[f.bob].PendingFriendRequests)
	assert.Empty(t, f.users.users[f.alice].Friends)
	assert.Empty(t, f.users.users[f.bob].Friends)
	assert.Equal(t, "rejected", f.requests.requests[created.ID].Status)
}

func TestRespondToRequestOnlyReceiver(t *testing.T) {
	f := newFriendFixture()

	created, err := f.service.SendFriendRequest(context.Background(), f.alice, f.bob)
	require.NoError(t, err)

	// The sender must not be able to accept their own request.
	err = f.service.RespondToRequest(context.Background(), created.ID, f.alice, true)
	assert.Error(t, err)
	assert.Equal(t, "pending", f.requests.requests[created.ID].Status)
}

func TestCancelRequestClearsPair(t *testing.T) {
	f := newFriendFixture()

	created, err := f.service.SendFriendRequest(context.Background(), f.alice, f.bob)
	require.NoError(t, err)

	require.NoError(t, f.service.CancelRequest(context.Background(), created.ID, f.alice))

	assert.Empty(t, f.users.users[f.alice].SentFriendRequests)
	assert.Empty(t, f.users.users[f.bob].PendingFriendRequests)
	assert.NotContains(t, f.requests.requests, created.ID)
}

func TestCancelRequestSenderOnly(t *testing.T) {
	f := newFriendFixture()

	created, err := f.service.SendFriendRequest(context.Background(), f.alice, f.bob)
	require.NoError(t, err)

	err = f.service.CancelRequest(context.Background(), created.ID, f.bob)
	assert.Error(t, err)
	assert.Contains(t, f.requests.requests, created.ID)
	assert.Equal(t, []primitive.ObjectID{f.bob}, f.users.users[f.alice].SentFriendRequests)
}

func TestRemoveFriendClearsBothDirections(t *testing.T) {
	f := newFriendFixture()
	f.users.users[f.alice].Friends = []primitive.ObjectID{f.bob}
	f.users.users[f.bob].Friends = []primitive.ObjectID{f.alice}

	require.NoError(t, f.service.RemoveFriend(context.Background(), f.alice, f.bob))

	assert.Empty(t, f.users.users[f.alice].Friends)
	assert.Empty(t, f.users.users[f.bob].Friends)
}

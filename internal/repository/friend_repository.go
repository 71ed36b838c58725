package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Social_Circle/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type FriendRepository struct {
	collection *mongo.Collection
}

func NewFriendRepository(db *mongo.Database) *FriendRepository {
	return &FriendRepository{
		collection: db.Collection("friend_requests"),
	}
}

func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	req.CreatedAt = time.Now()
	req.Status = "pending"

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to send friend request: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

func (r *FriendRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %v", err)
	}
	return &request, nil
}

// GetPendingBetween finds a pending request between two users, in either
// direction.
func (r *FriendRepository) GetPendingBetween(ctx context.Context, userID1, userID2 primitive.ObjectID) (*models.FriendRequest, error) {
	filter := bson.M{
		"status": "pending",
		"$or": []bson.M{
			{"sender_id": userID1, "receiver_id": userID2},
			{"sender_id": userID2, "receiver_id": userID1},
		},
	}

	var request models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up friend request: %v", err)
	}
	return &request, nil
}

func (r *FriendRepository) GetRequestsByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	return r.findPending(ctx, bson.M{"receiver_id": receiverID, "status": "pending"})
}

func (r *FriendRepository) GetRequestsBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error) {
	return r.findPending(ctx, bson.M{"sender_id": senderID, "status": "pending"})
}

func (r *FriendRepository) findPending(ctx context.Context, filter bson.M) ([]models.FriendRequest, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	for cursor.Next(ctx) {
		var req models.FriendRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}

func (r *FriendRepository) UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %v", err)
	}
	return nil
}

// DeleteRequest removes a request document entirely (used when the sender
// cancels).
func (r *FriendRepository) DeleteRequest(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete friend request: %v", err)
	}
	return nil
}

// GetStalePendingRequests returns pending requests created before the cutoff.
func (r *FriendRepository) GetStalePendingRequests(ctx context.Context, cutoff time.Time) ([]models.FriendRequest, error) {
	filter := bson.M{
		"status":     "pending",
		"created_at": bson.M{"$lt": cutoff},
	}
	return r.findPending(ctx, filter)
}

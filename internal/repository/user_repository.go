package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository handles database operations related to users.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}

	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %v", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID with all relationship arrays.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Warn("Failed to find user by ID")
		return nil, fmt.Errorf("failed to find user by id: %v", err)
	}
	return &user, nil
}

// GetUserByVerificationToken looks a user up by their email verification token.
func (r *UserRepository) GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"verify_token": token}).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by verification token: %v", err)
	}
	return &user, nil
}

// GetUserByResetToken looks a user up by their password reset token.
func (r *UserRepository) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"reset_token": token}).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by reset token: %v", err)
	}
	return &user, nil
}

// UpdateUser applies a partial update to a user and returns the fresh document.
func (r *UserRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error) {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to update user")
		return nil, fmt.Errorf("failed to update user: %v", err)
	}

	return r.GetUserByID(ctx, id)
}

// DeleteUser deletes a user from the database.
func (r *UserRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to delete user")
		return fmt.Errorf("failed to delete user: %v", err)
	}
	return nil
}

func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %v", err)
		}
		users = append(users, &user)
	}

	return users, nil
}

// GetUsersByIDs fetches user details for a list of ObjectIDs (mainly for friends).
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by IDs: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// AddFriend adds friendID to userID's friend list (one direction).
func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"friends": friendID}}, // avoid duplicates
	)
	if err != nil {
		return fmt.Errorf("failed to add friend: %v", err)
	}
	return nil
}

// RemoveFriend removes each user from the other's friend list.
func (r *UserRepository) RemoveFriend(ctx context.Context, userID1, userID2 primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID1},
		bson.M{"$pull": bson.M{"friends": userID2}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove friend from user %s: %v", userID1.Hex(), err)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": userID2},
		bson.M{"$pull": bson.M{"friends": userID1}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove friend from user %s: %v", userID2.Hex(), err)
	}

	return nil
}

// AddRequestPair records a friend request on both user documents: the
// receiver joins the sender's sent list and the sender joins the receiver's
// pending list.
func (r *UserRepository) AddRequestPair(ctx context.Context, senderID, receiverID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": senderID},
		bson.M{"$addToSet": bson.M{"sent_friend_requests": receiverID}},
	)
	if err != nil {
		return fmt.Errorf("failed to record sent request for user %s: %v", senderID.Hex(), err)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": receiverID},
		bson.M{"$addToSet": bson.M{"pending_friend_requests": senderID}},
	)
	if err != nil {
		return fmt.Errorf("failed to record pending request for user %s: %v", receiverID.Hex(), err)
	}

	return nil
}

// RemoveRequestPair undoes AddRequestPair on both user documents.
func (r *UserRepository) RemoveRequestPair(ctx context.Context, senderID, receiverID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": senderID},
		bson.M{"$pull": bson.M{"sent_friend_requests": receiverID}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear sent request for user %s: %v", senderID.Hex(), err)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": receiverID},
		bson.M{"$pull": bson.M{"pending_friend_requests": senderID}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear pending request for user %s: %v", receiverID.Hex(), err)
	}

	return nil
}

// FindUsersByInterests returns users sharing at least one of the given
// interests, excluding the given IDs.
func (r *UserRepository) FindUsersByInterests(ctx context.Context, interests []string, excludeIDs []primitive.ObjectID) ([]models.User, error) {
	filter := bson.M{
		"interests": bson.M{"$in": interests},
		"_id":       bson.M{"$nin": excludeIDs},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by interests: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users by interests: %v", err)
	}
	return users, nil
}

// FindUsersExcluding returns every user whose ID is not in excludeIDs.
func (r *UserRepository) FindUsersExcluding(ctx context.Context, excludeIDs []primitive.ObjectID) ([]models.User, error) {
	filter := bson.M{"_id": bson.M{"$nin": excludeIDs}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %v", err)
	}
	return users, nil
}

// SearchUsers does a naive case-insensitive match on username or email,
// excluding the searching user.
func (r *UserRepository) SearchUsers(ctx context.Context, query string, excludeID primitive.ObjectID) ([]models.User, error) {
	filter := bson.M{
		"_id": bson.M{"$ne": excludeID},
		"$or": []bson.M{
			{"username": bson.M{"$regex": query, "$options": "i"}},
			{"email": bson.M{"$regex": query, "$options": "i"}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %v", err)
	}
	return users, nil
}

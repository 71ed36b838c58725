package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the Social Circle system. The three
// relationship arrays are kept pairwise consistent by the friend service:
// friendship is symmetric, and every entry in SentFriendRequests has a
// mirror entry in the other user's PendingFriendRequests.
type User struct {
	ID                    primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username              string               `bson:"username" json:"username"`
	Email                 string               `bson:"email" json:"email"`
	HashedPassword        string               `bson:"hashed_password" json:"-"`
	Role                  string               `bson:"role" json:"role"`
	Interests             []string             `bson:"interests,omitempty" json:"interests,omitempty"`
	Friends               []primitive.ObjectID `bson:"friends,omitempty" json:"friends,omitempty"`
	SentFriendRequests    []primitive.ObjectID `bson:"sent_friend_requests,omitempty" json:"sent_friend_requests,omitempty"`
	PendingFriendRequests []primitive.ObjectID `bson:"pending_friend_requests,omitempty" json:"pending_friend_requests,omitempty"`
	IsVerified            bool                 `bson:"is_verified" json:"is_verified"`
	VerifyToken           string               `bson:"verify_token,omitempty" json:"-"`
	ResetToken            string               `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExp         time.Time            `bson:"reset_token_exp,omitempty" json:"-"`
	CreatedAt             time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time            `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the projection exposed to other users (search results,
// friend lists, recommendations).
type PublicUser struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	Email     string             `json:"email"`
	Interests []string           `json:"interests,omitempty"`
}

// Public strips the private fields from a user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Interests: u.Interests,
	}
}

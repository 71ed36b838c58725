package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserJSONOmitsCredentials(t *testing.T) {
	user := User{
		ID:             primitive.NewObjectID(),
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		VerifyToken:    "verify-token",
		ResetToken:     "reset-token",
		ResetTokenExp:  time.Now().Add(time.Hour),
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.NotContains(t, decoded, "hashed_password")
	assert.NotContains(t, decoded, "verify_token")
	assert.NotContains(t, decoded, "reset_token")
	assert.NotContains(t, string(raw), user.HashedPassword)
	assert.Equal(t, "alice", decoded["username"])
}

func TestPublicStripsPrivateFields(t *testing.T) {
	user := User{
		ID:             primitive.NewObjectID(),
		Username:       "bob",
		Email:          "bob@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		Interests:      []string{"chess"},
		Friends:        []primitive.ObjectID{primitive.NewObjectID()},
	}

	public := user.Public()
	assert.Equal(t, user.ID, public.ID)
	assert.Equal(t, user.Username, public.Username)
	assert.Equal(t, user.Interests, public.Interests)

	raw, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), user.HashedPassword)
	assert.NotContains(t, string(raw), "friends")
}

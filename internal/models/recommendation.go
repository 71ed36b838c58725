package models

// Recommendation is a scored friend suggestion. It is computed fresh on
// every request and never persisted.
type Recommendation struct {
	User            PublicUser `json:"user"`
	MutualFriends   int        `json:"mutualFriends"`
	MutualInterests int        `json:"mutualInterests"`
	Score           int        `json:"score"`
}

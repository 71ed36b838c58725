package recommend

import (
	"sort"
	"strings"

	"github.com/Dias221467/Social_Circle/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScoreWeightMutualFriend is how much a single mutual friend contributes to a
// candidate's score; a shared interest contributes 1.
const ScoreWeightMutualFriend = 2

// ExclusionSet returns the identifiers that must never be recommended to the
// subject: existing friends, users the subject already requested, users who
// requested the subject, and the subject itself.
func ExclusionSet(subject *models.User) map[primitive.ObjectID]struct{} {
	excluded := make(map[primitive.ObjectID]struct{},
		len(subject.Friends)+len(subject.SentFriendRequests)+len(subject.PendingFriendRequests)+1)
	excluded[subject.ID] = struct{}{}
	for _, id := range subject.Friends {
		excluded[id] = struct{}{}
	}
	for _, id := range subject.SentFriendRequests {
		excluded[id] = struct{}{}
	}
	for _, id := range subject.PendingFriendRequests {
		excluded[id] = struct{}{}
	}
	return excluded
}

// Recommend scores the candidate pool against the subject and returns at most
// maxResults suggestions, ordered by score descending. It is a pure function:
// no I/O, no retained state, safe to call concurrently on distinct snapshots.
//
// Candidates already related to the subject (see ExclusionSet) never reach
// scoring, duplicates in the pool are scored once, and candidates with
// nothing in common are dropped. Equal scores order by candidate ID
// ascending so output is reproducible.
func Recommend(subject *models.User, candidates []models.User, maxResults int) []models.Recommendation {
	if maxResults <= 0 {
		return []models.Recommendation{}
	}

	excluded := ExclusionSet(subject)
	subjectFriends := idSet(subject.Friends)
	subjectInterests := interestSet(subject.Interests)

	seen := make(map[primitive.ObjectID]struct{}, len(candidates))
	scored := make([]models.Recommendation, 0, len(candidates))

	for i := range candidates {
		candidate := &candidates[i]
		if _, bad := excluded[candidate.ID]; bad {
			continue
		}
		if _, dup := seen[candidate.ID]; dup {
			continue
		}
		seen[candidate.ID] = struct{}{}

		mutualFriends := countMutualFriends(subjectFriends, candidate.Friends)
		mutualInterests := countMutualInterests(subjectInterests, candidate.Interests)

		score := mutualFriends*ScoreWeightMutualFriend + mutualInterests
		if score <= 0 {
			continue
		}

		scored = append(scored, models.Recommendation{
			User:            candidate.Public(),
			MutualFriends:   mutualFriends,
			MutualInterests: mutualInterests,
			Score:           score,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].User.ID.Hex() < scored[j].User.ID.Hex()
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// interestSet normalizes an interest list into a set: entries are trimmed and
// duplicates collapse, so a repeated string cannot inflate the overlap count.
func interestSet(interests []string) map[string]struct{} {
	if len(interests) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest == "" {
			continue
		}
		set[interest] = struct{}{}
	}
	return set
}

func countMutualFriends(subjectFriends map[primitive.ObjectID]struct{}, candidateFriends []primitive.ObjectID) int {
	if len(subjectFriends) == 0 || len(candidateFriends) == 0 {
		return 0
	}
	count := 0
	seen := make(map[primitive.ObjectID]struct{}, len(candidateFriends))
	for _, id := range candidateFriends {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := subjectFriends[id]; ok {
			count++
		}
	}
	return count
}

func countMutualInterests(subjectInterests map[string]struct{}, candidateInterests []string) int {
	if len(subjectInterests) == 0 || len(candidateInterests) == 0 {
		return 0
	}
	count := 0
	for interest := range interestSet(candidateInterests) {
		if _, ok := subjectInterests[interest]; ok {
			count++
		}
	}
	return count
}

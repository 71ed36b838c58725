package services

import (
	"context"
	"fmt"

	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/Dias221467/Social_Circle/internal/recommend"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxRecommendations caps the suggestion list returned to clients.
const MaxRecommendations = 5

// UserDirectory is the slice of the user store the recommendation flow needs:
// resolving the subject and gathering candidate pools. *repository.UserRepository
// satisfies it.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUsersByInterests(ctx context.Context, interests []string, excludeIDs []primitive.ObjectID) ([]models.User, error)
	FindUsersExcluding(ctx context.Context, excludeIDs []primitive.ObjectID) ([]models.User, error)
}

// RecommendationService gathers candidate pools from the directory and runs
// the scoring engine over the combined pool.
type RecommendationService struct {
	directory  UserDirectory
	maxResults int
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(directory UserDirectory) *RecommendationService {
	return &RecommendationService{
		directory:  directory,
		maxResults: MaxRecommendations,
	}
}

// GetRecommendations resolves the subject, gathers the interest-based and
// mutual-friend candidate pools, and scores their union. The pools may
// overlap; the engine deduplicates and re-checks the exclusion set before
// scoring.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID primitive.ObjectID) ([]models.Recommendation, error) {
	subject, err := s.directory.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject: %v", err)
	}

	excluded := recommend.ExclusionSet(subject)
	excludeIDs := make([]primitive.ObjectID, 0, len(excluded))
	for id := range excluded {
		excludeIDs = append(excludeIDs, id)
	}

	var pool []models.User

	if len(subject.Interests) > 0 {
		byInterest, err := s.directory.FindUsersByInterests(ctx, subject.Interests, excludeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to gather interest candidates: %v", err)
		}
		pool = append(pool, byInterest...)
	}

	if len(subject.Friends) > 0 {
		others, err := s.directory.FindUsersExcluding(ctx, excludeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to gather mutual friend candidates: %v", err)
		}

		subjectFriends := make(map[primitive.ObjectID]struct{}, len(subject.Friends))
		for _, id := range subject.Friends {
			subjectFriends[id] = struct{}{}
		}

		// Only users with at least one friend in common enter this pool.
		for i := range others {
			for _, friendID := range others[i].Friends {
				if _, ok := subjectFriends[friendID]; ok {
					pool = append(pool, others[i])
					break
				}
			}
		}
	}

	return recommend.Recommend(subject, pool, s.maxResults), nil
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Social_Circle/internal/services"
	"github.com/Dias221467/Social_Circle/pkg/logger"
	"github.com/Dias221467/Social_Circle/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecommendationHandler serves scored friend suggestions.
type RecommendationHandler struct {
	Service *services.RecommendationService
}

// NewRecommendationHandler initializes a new RecommendationHandler.
func NewRecommendationHandler(service *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{Service: service}
}

// GetRecommendationsHandler returns up to five ranked friend suggestions for
// the authenticated user.
func (h *RecommendationHandler) GetRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to get recommendations")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		logger.Log.Warnf("Invalid user ID in token: %v", err)
		return
	}

	recommendations, err := h.Service.GetRecommendations(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get recommendations", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to compute recommendations for user %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recommendations)
}

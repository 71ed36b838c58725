package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dias221467/Social_Circle/internal/services"
	"github.com/Dias221467/Social_Circle/pkg/logger"
	"github.com/Dias221467/Social_Circle/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// GetNotificationsHandler lists the user's unexpired notifications.
func (h *NotificationHandler) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to get notifications")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	notifications, err := h.Service.GetUserNotifications(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get notifications", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to fetch notifications for user %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// MarkAsReadHandler marks one of the caller's own notifications as read.
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	notifID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.MarkNotificationAsRead(r.Context(), notifID, userID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			http.Error(w, "Notification not found", http.StatusNotFound)
			logger.Log.Warnf("User %s tried to mark a notification that is not theirs: %s", claims.UserID, vars["id"])
			return
		}
		http.Error(w, "Failed to mark notification as read", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to mark notification %s as read: %v", vars["id"], err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Notification marked as read",
	})
}

// DeleteNotificationHandler deletes one of the caller's own notifications.
func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	notifID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.DeleteNotification(r.Context(), notifID, userID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			http.Error(w, "Notification not found", http.StatusNotFound)
			logger.Log.Warnf("User %s tried to delete a notification that is not theirs: %s", claims.UserID, vars["id"])
			return
		}
		http.Error(w, "Failed to delete notification", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to delete notification %s: %v", vars["id"], err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Notification deleted",
	})
}

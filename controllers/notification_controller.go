package controllers

import (
	"net/http"

	"padel_server/middleware"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// NotificationController handles notification listing and read state
type NotificationController struct {
	NotificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController instance
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// GetNotifications returns the authenticated user's notifications
func (nc *NotificationController) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	notifications, err := nc.NotificationService.GetNotifications(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// MarkRead flags one of the user's notifications as read
func (nc *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	notificationID := mux.Vars(r)["notificationId"]

	if err := nc.NotificationService.MarkRead(r.Context(), userID, notificationID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// Cleanup removes notifications pointing at deleted matches
func (nc *NotificationController) Cleanup(w http.ResponseWriter, r *http.Request) {
	removed, err := nc.NotificationService.CleanupOrphans(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

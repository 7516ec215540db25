package routes

import (
	"padel_server/controllers"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up notification routes under /api/notifications
func RegisterNotificationRoutes(r *mux.Router, notificationService *services.NotificationService, auth mux.MiddlewareFunc) {
	controller := controllers.NewNotificationController(notificationService)

	notificationRouter := r.PathPrefix("/api/notifications").Subrouter()
	notificationRouter.Use(auth)

	notificationRouter.HandleFunc("", controller.GetNotifications).Methods("GET")
	notificationRouter.HandleFunc("/cleanup", controller.Cleanup).Methods("POST")
	notificationRouter.HandleFunc("/{notificationId}/read", controller.MarkRead).Methods("POST")
}

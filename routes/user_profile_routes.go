package routes

import (
	"padel_server/controllers"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up account and profile routes under /api/users
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService, auth mux.MiddlewareFunc) {
	controller := controllers.NewUserProfileController(userProfileService)

	// Public routes
	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("/register", controller.Register).Methods("POST")
	userRouter.HandleFunc("/login", controller.Login).Methods("POST")

	// Authenticated routes
	protected := r.PathPrefix("/api/users").Subrouter()
	protected.Use(auth)
	protected.HandleFunc("/me", controller.GetMe).Methods("GET")
	protected.HandleFunc("/me", controller.UpdateProfile).Methods("PATCH")
	protected.HandleFunc("/me", controller.DeleteProfile).Methods("DELETE")
	protected.HandleFunc("/{userId}", controller.GetProfile).Methods("GET")
}

package routes

import (
	"padel_server/controllers"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// RegisterFollowRoutes sets up follow graph routes under /api/follow
func RegisterFollowRoutes(r *mux.Router, followService *services.FollowService, auth mux.MiddlewareFunc) {
	controller := controllers.NewFollowController(followService)

	followRouter := r.PathPrefix("/api/follow").Subrouter()
	followRouter.Use(auth)

	followRouter.HandleFunc("/reconcile", controller.Reconcile).Methods("POST")
	followRouter.HandleFunc("/{userId}", controller.Follow).Methods("POST")
	followRouter.HandleFunc("/{userId}", controller.Unfollow).Methods("DELETE")
	followRouter.HandleFunc("/{userId}/followers", controller.GetFollowers).Methods("GET")
	followRouter.HandleFunc("/{userId}/following", controller.GetFollowing).Methods("GET")
}

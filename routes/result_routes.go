package routes

import (
	"padel_server/controllers"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// RegisterResultRoutes sets up score submission and confirmation routes
func RegisterResultRoutes(r *mux.Router, resultService *services.ResultService, auth mux.MiddlewareFunc) {
	controller := controllers.NewResultController(resultService)

	resultRouter := r.PathPrefix("/api/results").Subrouter()
	resultRouter.Use(auth)

	resultRouter.HandleFunc("/pending", controller.GetPendingResults).Methods("GET")
	resultRouter.HandleFunc("/{matchId}", controller.SubmitResult).Methods("POST")
	resultRouter.HandleFunc("/{matchId}/confirm", controller.ConfirmResult).Methods("POST")
}

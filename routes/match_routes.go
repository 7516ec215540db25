package routes

import (
	"padel_server/controllers"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up the match lifecycle routes under /api/matches
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, auth mux.MiddlewareFunc) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()
	matchRouter.Use(auth)

	matchRouter.HandleFunc("", controller.CreateMatch).Methods("POST")
	matchRouter.HandleFunc("", controller.ListUpcoming).Methods("GET")
	matchRouter.HandleFunc("/mine", controller.ListMine).Methods("GET")
	matchRouter.HandleFunc("/{matchId}", controller.GetMatch).Methods("GET")
	matchRouter.HandleFunc("/{matchId}", controller.DeleteMatch).Methods("DELETE")
	matchRouter.HandleFunc("/{matchId}/join", controller.Join).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/leave", controller.Leave).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/team", controller.AssignTeam).Methods("POST")
}

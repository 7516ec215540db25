package routes

import (
	"padel_server/controllers"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up per-match chat routes under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, auth mux.MiddlewareFunc) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.Use(auth)

	chatRouter.HandleFunc("/{matchId}/messages", controller.GetMessages).Methods("GET")
	chatRouter.HandleFunc("/{matchId}/messages", controller.SendMessage).Methods("POST")
	chatRouter.HandleFunc("/{matchId}/read", controller.MarkRead).Methods("POST")
}

package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"padel_server/middleware"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// ChatController handles per-match chat requests
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController creates a new ChatController instance
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// GetMessages fetches messages for a match, newest first
func (cc *ChatController) GetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	messages, err := cc.ChatService.GetMessagesByMatchID(r.Context(), matchID, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// SendMessage stores a new message from the authenticated participant
func (cc *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := middleware.GetUserID(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	message, err := cc.ChatService.SendMessage(r.Context(), matchID, userID, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, message)
}

// MarkRead marks the messages the user received in a match as read
func (cc *ChatController) MarkRead(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := middleware.GetUserID(r.Context())

	if err := cc.ChatService.MarkMessagesAsRead(r.Context(), matchID, userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}

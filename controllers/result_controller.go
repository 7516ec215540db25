package controllers

import (
	"encoding/json"
	"net/http"

	"padel_server/middleware"
	"padel_server/models"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// ResultController handles score submission and confirmation
type ResultController struct {
	ResultService *services.ResultService
}

// NewResultController creates a new ResultController instance
func NewResultController(resultService *services.ResultService) *ResultController {
	return &ResultController{ResultService: resultService}
}

// SubmitResult handles posting a proposed score for a match
func (rc *ResultController) SubmitResult(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := middleware.GetUserID(r.Context())

	var score models.Score
	if err := json.NewDecoder(r.Body).Decode(&score); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	match, err := rc.ResultService.SubmitResult(r.Context(), matchID, userID, score)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// ConfirmResult handles a participant confirming the pending score
func (rc *ResultController) ConfirmResult(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := middleware.GetUserID(r.Context())

	match, err := rc.ResultService.ConfirmResult(r.Context(), matchID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// GetPendingResults surfaces the user's matches that await a result
func (rc *ResultController) GetPendingResults(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	matches, err := rc.ResultService.ListPendingResultsForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

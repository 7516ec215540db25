package controllers

import (
	"encoding/json"
	"net/http"

	"padel_server/middleware"
	"padel_server/models"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for the match lifecycle
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

type createMatchRequest struct {
	Title         string `json:"title" validate:"required"`
	Venue         string `json:"venue"`
	Date          string `json:"date" validate:"required"`
	PlayersNeeded int    `json:"playersNeeded" validate:"required,gte=2,lte=4"`
}

// CreateMatch handles match creation; the creator joins immediately
func (mc *MatchController) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := mc.MatchService.CreateMatch(r.Context(), services.CreateMatchInput{
		Title:         req.Title,
		Venue:         req.Venue,
		Date:          req.Date,
		PlayersNeeded: req.PlayersNeeded,
		CreatedBy:     middleware.GetUserID(r.Context()),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, match)
}

// GetMatch handles fetching a single match
func (mc *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	match, err := mc.MatchService.GetMatch(r.Context(), matchID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// ListUpcoming handles fetching matches that have not started yet
func (mc *MatchController) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	matches, err := mc.MatchService.ListUpcomingMatches(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// ListMine handles fetching the authenticated user's matches
func (mc *MatchController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	matches, err := mc.MatchService.ListMatchesForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// Join handles a join request through the capacity gate
func (mc *MatchController) Join(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := middleware.GetUserID(r.Context())

	match, err := mc.MatchService.JoinMatch(r.Context(), matchID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// Leave handles leaving a match
func (mc *MatchController) Leave(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := middleware.GetUserID(r.Context())

	match, err := mc.MatchService.LeaveMatch(r.Context(), matchID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

type assignTeamRequest struct {
	Team     string `json:"team" validate:"required,oneof=team1 team2"`
	Position string `json:"position" validate:"omitempty,oneof=first second"` // advisory placement only
}

// AssignTeam handles a team slot request
func (mc *MatchController) AssignTeam(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := middleware.GetUserID(r.Context())

	var req assignTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Team != models.TeamOne && req.Team != models.TeamTwo {
		respondError(w, http.StatusBadRequest, "team must be team1 or team2")
		return
	}

	match, err := mc.MatchService.AssignTeam(r.Context(), matchID, userID, req.Team)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// DeleteMatch handles deleting a match; only the creator may do this
func (mc *MatchController) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := middleware.GetUserID(r.Context())

	if err := mc.MatchService.DeleteMatch(r.Context(), matchID, userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Match deleted"})
}

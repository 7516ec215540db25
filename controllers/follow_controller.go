package controllers

import (
	"net/http"

	"padel_server/middleware"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// FollowController handles the follow graph endpoints
type FollowController struct {
	FollowService *services.FollowService
}

// NewFollowController creates a new FollowController instance
func NewFollowController(followService *services.FollowService) *FollowController {
	return &FollowController{FollowService: followService}
}

// Follow adds an edge from the authenticated user to the target
func (fc *FollowController) Follow(w http.ResponseWriter, r *http.Request) {
	followerID := middleware.GetUserID(r.Context())
	followeeID := mux.Vars(r)["userId"]

	if err := fc.FollowService.Follow(r.Context(), followerID, followeeID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Followed"})
}

// Unfollow removes the edge from the authenticated user to the target
func (fc *FollowController) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID := middleware.GetUserID(r.Context())
	followeeID := mux.Vars(r)["userId"]

	if err := fc.FollowService.Unfollow(r.Context(), followerID, followeeID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Unfollowed"})
}

// GetFollowers lists enriched profiles of a user's followers
func (fc *FollowController) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	followers, err := fc.FollowService.GetFollowers(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"followers": followers})
}

// GetFollowing lists enriched profiles the user follows
func (fc *FollowController) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	following, err := fc.FollowService.GetFollowing(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"following": following})
}

// Reconcile repairs half-applied follow edges around the authenticated user
func (fc *FollowController) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	repaired, err := fc.FollowService.Reconcile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"repaired": repaired})
}

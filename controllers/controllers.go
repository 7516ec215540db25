package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"padel_server/services"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain errors onto HTTP statuses. Validation-class
// failures are 4xx and never retried; everything else is a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyJoined),
		errors.Is(err, services.ErrMatchFull),
		errors.Is(err, services.ErrTeamFull),
		errors.Is(err, services.ErrAlreadyAssigned),
		errors.Is(err, services.ErrAlreadyConfirmed),
		errors.Is(err, services.ErrResultConfirmed),
		errors.Is(err, services.ErrNoResultPending),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrSelfFollow):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotAMember),
		errors.Is(err, services.ErrNotAParticipant):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidScore):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

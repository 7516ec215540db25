package controllers

import (
	"net/http"

	"padel_server/services"
)

// S3Controller hands out presigned URLs for profile photos
type S3Controller struct {
	S3Service *services.S3Service
}

// NewS3Controller creates a new S3Controller instance
func NewS3Controller(s3Service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: s3Service}
}

// GetUploadURL returns a presigned PUT URL for a new photo
func (sc *S3Controller) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	fileType := r.URL.Query().Get("fileType")
	if fileName == "" || fileType == "" {
		respondError(w, http.StatusBadRequest, "fileName and fileType are required")
		return
	}

	url, key, err := sc.S3Service.GenerateUploadURL(r.Context(), fileName, fileType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// GetReadURL returns a presigned GET URL for a stored photo
func (sc *S3Controller) GetReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := sc.S3Service.GenerateReadURL(r.Context(), key)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"readUrl": url})
}

package routes

import (
	"padel_server/controllers"
	"padel_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up presigned URL routes under /api/photos
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service, auth mux.MiddlewareFunc) {
	controller := controllers.NewS3Controller(s3Service)

	photoRouter := r.PathPrefix("/api/photos").Subrouter()
	photoRouter.Use(auth)

	photoRouter.HandleFunc("/upload-url", controller.GetUploadURL).Methods("GET")
	photoRouter.HandleFunc("/read-url", controller.GetReadURL).Methods("GET")
}

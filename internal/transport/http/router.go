package http

import (
	"github.com/gorilla/mux"
)

// NewRouter configures HTTP routes.
func NewRouter(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/jobs", handler.CreateJob).Methods("POST")
	r.HandleFunc("/api/jobs", handler.ListJobs).Methods("GET")
	r.HandleFunc("/api/jobs/{id}", handler.GetJob).Methods("GET")
	r.HandleFunc("/api/jobs/{id}", handler.DeleteJob).Methods("DELETE")
	r.HandleFunc("/api/jobs/{id}/enqueue", handler.EnqueueJob).Methods("POST")
	r.HandleFunc("/api/jobs/{id}/cancel", handler.CancelJob).Methods("POST")
	r.HandleFunc("/api/jobs/{id}/retry", handler.RetryJob).Methods("POST")
	r.HandleFunc("/api/jobs/{id}/result", handler.DownloadResult).Methods("GET")
	r.HandleFunc("/api/queue", handler.QueueSnapshot).Methods("GET")

	r.HandleFunc("/api/models", handler.ListModels).Methods("GET")
	r.HandleFunc("/api/models", handler.CreateModel).Methods("POST")
	r.HandleFunc("/api/models/{id}", handler.DeleteModel).Methods("DELETE")
	r.HandleFunc("/api/voices", handler.ListVoices).Methods("GET")
	r.HandleFunc("/api/voices", handler.CreateVoice).Methods("POST")
	r.HandleFunc("/api/voices/{id}", handler.DeleteVoice).Methods("DELETE")

	return r
}

package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"mcadmin/internal/jobs"
	"mcadmin/internal/models"
)

type JobsHandler struct {
	store *jobs.Store
}

func NewJobsHandler(store *jobs.Store) *JobsHandler {
	return &JobsHandler{store: store}
}

// ListJobs returns the retained job history, newest first.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List()
	if err != nil {
		log.Printf("Failed to list jobs: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	writeJSON(w, http.StatusOK, models.JobListResponse{Jobs: list})
}

func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.store.Get(mux.Vars(r)["id"])
	if errors.Is(err, jobs.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		log.Printf("Failed to get job: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to get job")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

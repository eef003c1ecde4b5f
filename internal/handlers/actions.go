package handlers

import (
	"encoding/json"
	"net/http"

	"mcadmin/internal/actions"
	"mcadmin/internal/jobs"
	"mcadmin/internal/models"
)

// ActionsHandler turns HTTP action requests into submitted jobs. Every
// endpoint answers immediately with the job id; completion is observed by
// polling /api/jobs.
type ActionsHandler struct {
	dispatcher *jobs.Dispatcher
}

func NewActionsHandler(dispatcher *jobs.Dispatcher) *ActionsHandler {
	return &ActionsHandler{dispatcher: dispatcher}
}

// ServerAction builds the handler for one of the server-control endpoints.
func (h *ActionsHandler) ServerAction(kind actions.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireCSRF(w, r) {
			return
		}
		h.submit(w, kind, nil)
	}
}

// PlayerAction builds the handler for one of the player-management
// endpoints, including onboard.
func (h *ActionsHandler) PlayerAction(kind actions.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireCSRF(w, r) {
			return
		}
		var req models.PlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		h.submit(w, kind, &actions.PlayerParams{Name: req.Name, Op: req.Op})
	}
}

func (h *ActionsHandler) submit(w http.ResponseWriter, kind actions.Kind, params *actions.PlayerParams) {
	job, err := h.dispatcher.Submit(kind, params)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.JobSubmitResponse{JobID: job.ID, Status: job.Status})
}

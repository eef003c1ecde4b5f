package handlers

import (
	"net/http"

	"mcadmin/internal/status"
)

type StatusHandler struct {
	aggregator *status.Aggregator
}

func NewStatusHandler(aggregator *status.Aggregator) *StatusHandler {
	return &StatusHandler{aggregator: aggregator}
}

func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := h.aggregator.Snapshot(r.Context())
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

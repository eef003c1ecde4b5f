package handlers

import (
	"net/http"

	"mcadmin/internal/models"
	"mcadmin/internal/whitelist"
)

type WhitelistHandler struct {
	repo *whitelist.Repository
}

func NewWhitelistHandler(repo *whitelist.Repository) *WhitelistHandler {
	return &WhitelistHandler{repo: repo}
}

func (h *WhitelistHandler) GetWhitelist(w http.ResponseWriter, r *http.Request) {
	names, err := h.repo.List()
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.WhitelistResponse{Names: names})
}

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mcadmin/internal/actions"
	"mcadmin/internal/auth"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDetail emits the error contract every non-2xx response follows:
// a JSON body with a detail field.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value("claims").(*auth.Claims)
	return claims
}

// requireCSRF guards a mutating handler. Returns false after writing the
// 403 when the header token is absent or does not match the session.
func requireCSRF(w http.ResponseWriter, r *http.Request) bool {
	if !auth.VerifyCSRF(claimsFrom(r), r.Header.Get(auth.CSRFHeader)) {
		writeDetail(w, http.StatusForbidden, "Invalid CSRF token")
		return false
	}
	return true
}

// writeActionError maps the error taxonomy onto responses. Validation and
// action errors are the caller's problem (400); anything else is ours (500).
func writeActionError(w http.ResponseWriter, err error) {
	var validationErr *actions.ValidationError
	var actionErr *actions.ActionError
	switch {
	case errors.As(err, &validationErr):
		writeDetail(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &actionErr):
		writeDetail(w, http.StatusBadRequest, actionErr.Message)
	default:
		log.Printf("Internal error: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

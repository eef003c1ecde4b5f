package handlers

import (
	"log"
	"net/http"

	"mcadmin/internal/auth"
	"mcadmin/internal/config"
	"mcadmin/internal/models"
)

type AuthHandler struct {
	settings *config.Settings
}

func NewAuthHandler(settings *config.Settings) *AuthHandler {
	return &AuthHandler{settings: settings}
}

// Login checks the panel password and installs the session cookie. The CSRF
// token is returned in the body; the client sends it back in X-CSRF-Token on
// every mutating call.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !auth.CheckPassword(r.PostFormValue("password"), h.settings.Password) {
		writeDetail(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, csrf, err := auth.NewSessionToken([]byte(h.settings.SessionSecret))
	if err != nil {
		log.Printf("Failed to issue session: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.settings.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, models.LoginResponse{Status: "ok", CSRFToken: csrf})
}

// Logout clears the session cookie. Requires a valid session and CSRF token
// like any other mutation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !requireCSRF(w, r) {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.settings.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"mcadmin/internal/auth"
)

// SessionMiddleware authenticates /api requests from the session cookie and
// stashes the parsed claims in the request context. Unauthenticated requests
// get a 401 JSON body; the client redirects to /login on that.
func SessionMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}
			claims, err := auth.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), "claims", claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"detail": "Authentication required"})
}

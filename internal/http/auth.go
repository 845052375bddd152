package http

import (
	"context"
	"net/http"
)

type userKeyType struct{}

var userKey userKeyType

// withUser requires an X-User-ID header and stores its value in the request
// context. Ledger routes refuse anonymous requests before touching storage.
func withUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing X-User-ID header"})
			return
		}
		ctx := context.WithValue(r.Context(), userKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// currentUser returns the authenticated user id stored by withUser.
func currentUser(r *http.Request) string {
	userID, _ := r.Context().Value(userKey).(string)
	return userID
}

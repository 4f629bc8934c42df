package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/store"
)

const SessionCookieName = "hemma_session"

// RequireAuth validates the session cookie and puts the household session
// into the request context. API clients get a JSON 401; there is no
// server-side redirect.
func RequireAuth(sessions *store.SessionStore, households *store.HouseholdStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			household, err := households.GetByID(sess.HouseholdID)
			if err != nil || household == nil {
				unauthorized(w)
				return
			}

			ctx := auth.WithSession(r.Context(), auth.Session{
				HouseholdID:   household.ID,
				HouseholdCode: household.Code,
				SessionID:     sess.ID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Inte inloggad"})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/database"
	"github.com/halvarsson/hemma/internal/store"
)

func setupAuth(t *testing.T) (*store.HouseholdStore, *store.SessionStore, func(http.Handler) http.Handler) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	households := store.NewHouseholdStore(db)
	sessions := store.NewSessionStore(db)
	return households, sessions, RequireAuth(sessions, households)
}

func TestRequireAuthRejectsMissingCookie(t *testing.T) {
	_, _, requireAuth := setupAuth(t)

	handler := requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Inte inloggad") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequireAuthRejectsUnknownToken(t *testing.T) {
	_, _, requireAuth := setupAuth(t)

	handler := requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with a bogus token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "deadbeef"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthPopulatesContext(t *testing.T) {
	households, sessions, requireAuth := setupAuth(t)

	household, err := households.Create("AUT123", "Testfamiljen", "hash")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	sess, err := sessions.Create(household.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var got auth.Session
	handler := requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.HouseholdID != household.ID {
		t.Errorf("household id = %d, want %d", got.HouseholdID, household.ID)
	}
	if got.HouseholdCode != "AUT123" {
		t.Errorf("household code = %q", got.HouseholdCode)
	}
	if got.SessionID != sess.ID {
		t.Errorf("session id = %d, want %d", got.SessionID, sess.ID)
	}
}

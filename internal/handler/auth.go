package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/middleware"
	"github.com/halvarsson/hemma/internal/store"
)

type AuthHandler struct {
	households  *store.HouseholdStore
	sessions    *store.SessionStore
	preferences *store.PreferencesStore
	limiter     *middleware.RateLimiter
	secure      bool
	logger      *slog.Logger
}

func NewAuthHandler(hs *store.HouseholdStore, ss *store.SessionStore, ps *store.PreferencesStore, limiter *middleware.RateLimiter, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		households:  hs,
		sessions:    ss,
		preferences: ps,
		limiter:     limiter,
		secure:      secureCookies,
		logger:      logger.With("component", "auth"),
	}
}

type registerRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Name = strings.TrimSpace(req.Name)
	switch {
	case len(req.Code) < 4 || len(req.Code) > 20:
		writeError(w, http.StatusBadRequest, "code must be 4-20 characters")
		return
	case req.Name == "":
		writeError(w, http.StatusBadRequest, "name is required")
		return
	case len(req.Password) < 6:
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	existing, err := h.households.GetByCode(req.Code)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "household code already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	household, err := h.households.Create(req.Code, req.Name, string(hash))
	if err != nil {
		h.logger.Error("create household", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	if err := h.preferences.Seed(household.ID); err != nil {
		h.logger.Error("seed preferences", "household_id", household.ID, "error", err)
	}

	if err := h.startSession(w, household.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}
	writeJSON(w, http.StatusCreated, household)
}

type loginRequest struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))

	// Brute-force guard keyed by household code.
	if !h.limiter.Allow("login:"+req.Code, 10, 15*time.Minute) {
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	household, err := h.households.GetByCode(req.Code)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if household == nil {
		writeError(w, http.StatusUnauthorized, "Fel kod eller lösenord")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(household.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Fel kod eller lösenord")
		return
	}

	if err := h.startSession(w, household.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	writeJSON(w, http.StatusOK, household)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessions.Delete(sess.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in household.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	household, err := h.households.GetByID(auth.HouseholdID(r.Context()))
	if err != nil || household == nil {
		writeError(w, http.StatusInternalServerError, "failed to load household")
		return
	}
	writeJSON(w, http.StatusOK, household)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *AuthHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	household, err := h.households.UpdateName(auth.HouseholdID(r.Context()), req.Name)
	if err != nil {
		h.logger.Error("rename household", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to rename")
		return
	}
	writeJSON(w, http.StatusOK, household)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, householdID int64) error {
	sess, err := h.sessions.Create(householdID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

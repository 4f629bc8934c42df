package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/store"
)

type PreferencesHandler struct {
	prefs  *store.PreferencesStore
	logger *slog.Logger
}

func NewPreferencesHandler(ps *store.PreferencesStore, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{prefs: ps, logger: logger.With("component", "preferences")}
}

// Get returns the household's settings, merged over the defaults.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Get(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("get preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// Update replaces the settings blob wholesale. Clients send the full
// object back, edited.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var prefs model.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if prefs.Timezone != "" {
		if _, err := time.LoadLocation(prefs.Timezone); err != nil {
			writeError(w, http.StatusBadRequest, "invalid timezone")
			return
		}
	}
	if prefs.DefaultReminderHr < 0 {
		writeError(w, http.StatusBadRequest, "default_reminder_hours must not be negative")
		return
	}
	if prefs.DinnerTime != "" {
		if _, err := time.Parse("15:04", prefs.DinnerTime); err != nil {
			writeError(w, http.StatusBadRequest, "dinner_time must be HH:MM")
			return
		}
	}

	householdID := auth.HouseholdID(r.Context())
	if err := h.prefs.Set(householdID, prefs); err != nil {
		h.logger.Error("set preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	saved, err := h.prefs.Get(householdID)
	if err != nil {
		h.logger.Error("get preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

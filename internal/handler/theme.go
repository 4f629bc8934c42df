package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/theme"
)

type ThemeHandler struct {
	resolver *theme.Resolver
	logger   *slog.Logger
}

func NewThemeHandler(resolver *theme.Resolver, logger *slog.Logger) *ThemeHandler {
	return &ThemeHandler{resolver: resolver, logger: logger.With("component", "theme")}
}

// Current returns the active theme and its display name.
func (h *ThemeHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"theme": h.resolver.Resolve(),
		"name":  h.resolver.Name(),
	})
}

type themeOverrideRequest struct {
	Category string `json:"category"`
}

// SetOverride activates an event-category theme, e.g. while planning a
// wedding in the middle of summer.
func (h *ThemeHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	var req themeOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	category := model.EventCategory(req.Category)
	if !category.Valid() {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	h.resolver.SetEventTheme(category)
	h.logger.Info("theme override set", "category", category)
	writeJSON(w, http.StatusOK, map[string]string{
		"theme": h.resolver.Resolve(),
		"name":  h.resolver.Name(),
	})
}

// ClearOverride reverts to the month theme.
func (h *ThemeHandler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	h.resolver.ClearEventTheme()
	writeJSON(w, http.StatusOK, map[string]string{
		"theme": h.resolver.Resolve(),
		"name":  h.resolver.Name(),
	})
}

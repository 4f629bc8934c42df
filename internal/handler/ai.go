package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/halvarsson/hemma/internal/ai"
	"github.com/halvarsson/hemma/internal/auth"
)

type AIHandler struct {
	service *ai.Service
	logger  *slog.Logger
}

func NewAIHandler(service *ai.Service, logger *slog.Logger) *AIHandler {
	return &AIHandler{service: service, logger: logger.With("component", "ai")}
}

type aiQueryRequest struct {
	Query string `json:"query"`
}

// readQuery decodes the common {"query": "..."} body.
func readQuery(w http.ResponseWriter, r *http.Request, required bool) (string, bool) {
	var req aiQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return "", false
	}
	req.Query = strings.TrimSpace(req.Query)
	if required && req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return "", false
	}
	return req.Query, true
}

// writeAIError maps gateway failures to their fixed Swedish messages.
func (h *AIHandler) writeAIError(w http.ResponseWriter, function string, err error) {
	switch {
	case errors.Is(err, ai.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, ai.MsgRateLimited)
	case errors.Is(err, ai.ErrPaymentRequired):
		writeError(w, http.StatusPaymentRequired, ai.MsgPaymentRequired)
	default:
		h.logger.Error("assistant function failed", "function", function, "error", err)
		writeError(w, http.StatusInternalServerError, ai.MsgGatewayError)
	}
}

func (h *AIHandler) RecipeSearch(w http.ResponseWriter, r *http.Request) {
	query, ok := readQuery(w, r, true)
	if !ok {
		return
	}
	result, err := h.service.RecipeSearch(r.Context(), auth.HouseholdID(r.Context()), query)
	if err != nil {
		h.writeAIError(w, "ai-recipe-search", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type categorizeRequest struct {
	Item string `json:"item"`
}

func (h *AIHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Item = strings.TrimSpace(req.Item)
	if req.Item == "" {
		writeError(w, http.StatusBadRequest, "item is required")
		return
	}

	result, err := h.service.Categorize(r.Context(), auth.HouseholdID(r.Context()), req.Item)
	if err != nil {
		h.writeAIError(w, "ai-categorize", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type aiEventRequest struct {
	EventID int64 `json:"event_id"`
}

func (h *AIHandler) ShoppingList(w http.ResponseWriter, r *http.Request) {
	var req aiEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.EventID <= 0 {
		writeError(w, http.StatusBadRequest, "event_id is required")
		return
	}

	result, err := h.service.ShoppingList(r.Context(), auth.HouseholdID(r.Context()), req.EventID)
	if err != nil {
		h.writeAIError(w, "ai-shopping-list", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AIHandler) NotesSearch(w http.ResponseWriter, r *http.Request) {
	query, ok := readQuery(w, r, true)
	if !ok {
		return
	}
	result, err := h.service.NotesSearch(r.Context(), auth.HouseholdID(r.Context()), query)
	if err != nil {
		h.writeAIError(w, "ai-notes-search", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AIHandler) RecipeRecommendations(w http.ResponseWriter, r *http.Request) {
	query, ok := readQuery(w, r, true)
	if !ok {
		return
	}
	result, err := h.service.RecipeRecommendations(r.Context(), auth.HouseholdID(r.Context()), query)
	if err != nil {
		h.writeAIError(w, "ai-recipe-recommendations", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AIHandler) MealPlanGenerator(w http.ResponseWriter, r *http.Request) {
	query, ok := readQuery(w, r, false)
	if !ok {
		return
	}
	result, err := h.service.MealPlanGenerator(r.Context(), auth.HouseholdID(r.Context()), query)
	if err != nil {
		h.writeAIError(w, "ai-meal-plan-generator", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AIHandler) TodoSuggestions(w http.ResponseWriter, r *http.Request) {
	var req aiEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.EventID <= 0 {
		writeError(w, http.StatusBadRequest, "event_id is required")
		return
	}

	result, err := h.service.TodoSuggestions(r.Context(), auth.HouseholdID(r.Context()), req.EventID)
	if err != nil {
		h.writeAIError(w, "ai-todo-suggestions", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type aiTextRequest struct {
	Text string `json:"text"`
}

func (h *AIHandler) NaturalLanguageParse(w http.ResponseWriter, r *http.Request) {
	var req aiTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.service.NaturalLanguageParse(r.Context(), auth.HouseholdID(r.Context()), req.Text)
	if err != nil {
		h.writeAIError(w, "ai-natural-language-parse", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AIHandler) ImportSuggestions(w http.ResponseWriter, r *http.Request) {
	var req aiTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.service.ImportSuggestions(r.Context(), auth.HouseholdID(r.Context()), req.Text)
	if err != nil {
		h.writeAIError(w, "ai-import-suggestions", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

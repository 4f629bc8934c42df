package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/store"
)

type RecipeHandler struct {
	recipes *store.RecipeStore
	events  *store.EventStore
	logger  *slog.Logger
}

func NewRecipeHandler(rs *store.RecipeStore, es *store.EventStore, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: rs, events: es, logger: logger.With("component", "recipes")}
}

type recipeRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Category     string   `json:"category"`
	Servings     int      `json:"servings"`
	PrepMinutes  int      `json:"prep_minutes"`
}

func (h *RecipeHandler) parseAndValidate(w http.ResponseWriter, r *http.Request) (*model.Recipe, bool) {
	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return nil, false
	}
	if req.Servings <= 0 {
		req.Servings = 4
	}
	return &model.Recipe{
		HouseholdID:  auth.HouseholdID(r.Context()),
		Name:         req.Name,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Category:     req.Category,
		Servings:     req.Servings,
		PrepMinutes:  req.PrepMinutes,
	}, true
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	recipe, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	created, err := h.recipes.Create(recipe)
	if err != nil {
		h.logger.Error("create recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create recipe")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())

	var recipes []model.Recipe
	var err error
	if term := r.URL.Query().Get("q"); term != "" {
		recipes, err = h.recipes.Search(householdID, term)
	} else {
		recipes, err = h.recipes.List(householdID, r.URL.Query().Get("category"))
	}
	if err != nil {
		h.logger.Error("list recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list recipes")
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	recipe, err := h.recipes.GetByID(id, auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get recipe")
		return
	}
	if recipe == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	recipe, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}
	recipe.ID = id

	existing, err := h.recipes.GetByID(id, recipe.HouseholdID)
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	updated, err := h.recipes.Update(recipe)
	if err != nil {
		h.logger.Error("update recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.recipes.Delete(id, auth.HouseholdID(r.Context())); err != nil {
		h.logger.Error("delete recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EventRecipes lists the menu for an event.
func (h *RecipeHandler) EventRecipes(w http.ResponseWriter, r *http.Request) {
	event := h.ownedEvent(w, r)
	if event == nil {
		return
	}

	recipes, err := h.recipes.ListByEvent(event.ID)
	if err != nil {
		h.logger.Error("list event recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list recipes")
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) LinkToEvent(w http.ResponseWriter, r *http.Request) {
	event := h.ownedEvent(w, r)
	if event == nil {
		return
	}

	recipeID, err := strconv.ParseInt(r.PathValue("recipeID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}
	recipe, err := h.recipes.GetByID(recipeID, event.HouseholdID)
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to link recipe")
		return
	}
	if recipe == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	if err := h.recipes.LinkToEvent(event.ID, recipeID); err != nil {
		h.logger.Error("link recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to link recipe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecipeHandler) UnlinkFromEvent(w http.ResponseWriter, r *http.Request) {
	event := h.ownedEvent(w, r)
	if event == nil {
		return
	}

	recipeID, err := strconv.ParseInt(r.PathValue("recipeID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	if err := h.recipes.UnlinkFromEvent(event.ID, recipeID); err != nil {
		h.logger.Error("unlink recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to unlink recipe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecipeHandler) ownedEvent(w http.ResponseWriter, r *http.Request) *model.Event {
	eventID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return nil
	}
	event, err := h.events.GetByID(eventID, auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("get event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load event")
		return nil
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return nil
	}
	return event
}

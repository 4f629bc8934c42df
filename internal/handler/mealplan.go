package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/store"
)

type MealPlanHandler struct {
	plans   *store.MealPlanStore
	recipes *store.RecipeStore
	logger  *slog.Logger
}

func NewMealPlanHandler(ms *store.MealPlanStore, rs *store.RecipeStore, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{plans: ms, recipes: rs, logger: logger.With("component", "mealplan")}
}

// GetWeek returns the plan for the week containing the given date (today
// when absent), creating an empty plan on first access.
func (h *MealPlanHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	at := time.Now()
	if s := r.URL.Query().Get("date"); s != "" {
		t, err := parseFlexibleTime(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be RFC3339 or YYYY-MM-DD format")
			return
		}
		at = t
	}

	plan, err := h.plans.GetOrCreate(auth.HouseholdID(r.Context()), at)
	if err != nil {
		h.logger.Error("get meal plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load meal plan")
		return
	}

	items, err := h.plans.ListItems(plan.ID)
	if err != nil {
		h.logger.Error("list meal plan items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load meal plan")
		return
	}
	if items == nil {
		items = []model.MealPlanItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"plan":  plan,
		"items": items,
	})
}

type mealItemRequest struct {
	Day      int    `json:"day"`
	Meal     string `json:"meal"`
	RecipeID *int64 `json:"recipe_id"`
	Title    string `json:"title"`
}

func (h *MealPlanHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	plan := h.ownedPlan(w, r)
	if plan == nil {
		return
	}

	var req mealItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.RecipeID != nil {
		recipe, err := h.recipes.GetByID(*req.RecipeID, plan.HouseholdID)
		if err != nil {
			h.logger.Error("get recipe", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to add meal")
			return
		}
		if recipe == nil {
			writeError(w, http.StatusBadRequest, "recipe not found")
			return
		}
		if req.Title == "" {
			req.Title = recipe.Name
		}
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title or recipe_id is required")
		return
	}

	item, err := h.plans.AddItem(plan.ID, req.Day, model.MealType(req.Meal), req.RecipeID, req.Title)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *MealPlanHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	plan := h.ownedPlan(w, r)
	if plan == nil {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	item, err := h.plans.GetItem(itemID)
	if err != nil {
		h.logger.Error("get meal plan item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if item == nil || item.PlanID != plan.ID {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}

	if err := h.plans.DeleteItem(itemID); err != nil {
		h.logger.Error("delete meal plan item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MealPlanHandler) ClearWeek(w http.ResponseWriter, r *http.Request) {
	plan := h.ownedPlan(w, r)
	if plan == nil {
		return
	}

	if err := h.plans.ClearWeek(plan.ID); err != nil {
		h.logger.Error("clear meal plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear meal plan")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedPlan resolves the plan id path parameter within the household.
func (h *MealPlanHandler) ownedPlan(w http.ResponseWriter, r *http.Request) *model.MealPlan {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan id")
		return nil
	}

	// Plans are keyed by week; verify ownership via household scope.
	householdID := auth.HouseholdID(r.Context())
	plan, err := h.plans.GetByID(id, householdID)
	if err != nil {
		h.logger.Error("get meal plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load meal plan")
		return nil
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "meal plan not found")
		return nil
	}
	return plan
}

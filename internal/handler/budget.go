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

type BudgetHandler struct {
	budgets *store.BudgetStore
	events  *store.EventStore
	logger  *slog.Logger
}

func NewBudgetHandler(bs *store.BudgetStore, es *store.EventStore, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{budgets: bs, events: es, logger: logger.With("component", "budget")}
}

// Get returns an event's budget with its items and running totals,
// creating a zero budget on first access.
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	event := h.ownedEvent(w, r)
	if event == nil {
		return
	}

	budget, err := h.budgets.GetOrCreate(event.ID)
	if err != nil {
		h.logger.Error("get budget", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load budget")
		return
	}

	items, err := h.budgets.ListItems(budget.ID)
	if err != nil {
		h.logger.Error("list budget items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load budget")
		return
	}
	if items == nil {
		items = []model.BudgetItem{}
	}

	planned, actual, err := h.budgets.Totals(budget.ID)
	if err != nil {
		h.logger.Error("sum budget", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load budget")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"budget":      budget,
		"items":       items,
		"planned_ore": planned,
		"actual_ore":  actual,
	})
}

type budgetTotalRequest struct {
	TotalOre int64 `json:"total_ore"`
}

func (h *BudgetHandler) SetTotal(w http.ResponseWriter, r *http.Request) {
	event := h.ownedEvent(w, r)
	if event == nil {
		return
	}

	var req budgetTotalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.TotalOre < 0 {
		writeError(w, http.StatusBadRequest, "total_ore must not be negative")
		return
	}

	if _, err := h.budgets.GetOrCreate(event.ID); err != nil {
		h.logger.Error("get budget", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update budget")
		return
	}
	budget, err := h.budgets.SetTotal(event.ID, req.TotalOre)
	if err != nil {
		h.logger.Error("set budget total", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update budget")
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

type budgetItemRequest struct {
	Name       string `json:"name"`
	PlannedOre int64  `json:"planned_ore"`
	ActualOre  int64  `json:"actual_ore"`
}

func (h *BudgetHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	event := h.ownedEvent(w, r)
	if event == nil {
		return
	}

	var req budgetItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	budget, err := h.budgets.GetOrCreate(event.ID)
	if err != nil {
		h.logger.Error("get budget", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	item, err := h.budgets.AddItem(budget.ID, req.Name, req.PlannedOre, req.ActualOre)
	if err != nil {
		h.logger.Error("add budget item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *BudgetHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	var req budgetItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	item.Name = req.Name
	item.PlannedOre = req.PlannedOre
	item.ActualOre = req.ActualOre

	updated, err := h.budgets.UpdateItem(item)
	if err != nil {
		h.logger.Error("update budget item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *BudgetHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	if err := h.budgets.DeleteItem(item.ID); err != nil {
		h.logger.Error("delete budget item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BudgetHandler) ownedEvent(w http.ResponseWriter, r *http.Request) *model.Event {
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

// ownedItem checks the item against the event's budget.
func (h *BudgetHandler) ownedItem(w http.ResponseWriter, r *http.Request) *model.BudgetItem {
	event := h.ownedEvent(w, r)
	if event == nil {
		return nil
	}

	budget, err := h.budgets.GetByEvent(event.ID)
	if err != nil {
		h.logger.Error("get budget", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load budget")
		return nil
	}
	if budget == nil {
		writeError(w, http.StatusNotFound, "budget not found")
		return nil
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return nil
	}
	item, err := h.budgets.GetItem(itemID)
	if err != nil {
		h.logger.Error("get budget item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return nil
	}
	if item == nil || item.BudgetID != budget.ID {
		writeError(w, http.StatusNotFound, "item not found")
		return nil
	}
	return item
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/store"
	"github.com/halvarsson/hemma/internal/websocket"
)

type ShoppingHandler struct {
	shopping *store.ShoppingStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewShoppingHandler(ss *store.ShoppingStore, hub *websocket.Hub, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{shopping: ss, hub: hub, logger: logger.With("component", "shopping")}
}

type listRequest struct {
	Name    string `json:"name"`
	EventID *int64 `json:"event_id"`
}

func (h *ShoppingHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	list, err := h.shopping.CreateList(householdID, req.EventID, req.Name)
	if err != nil {
		h.logger.Error("create shopping list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create list")
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("shopping_list", "created", list.ID, nil))
	writeJSON(w, http.StatusCreated, list)
}

func (h *ShoppingHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.shopping.ListLists(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list shopping lists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list shopping lists")
		return
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// GetList returns a list together with its items.
func (h *ShoppingHandler) GetList(w http.ResponseWriter, r *http.Request) {
	list := h.ownedList(w, r)
	if list == nil {
		return
	}

	items, err := h.shopping.ListItems(list.ID)
	if err != nil {
		h.logger.Error("list shopping items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.ShoppingListItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"list":  list,
		"items": items,
	})
}

func (h *ShoppingHandler) RenameList(w http.ResponseWriter, r *http.Request) {
	list := h.ownedList(w, r)
	if list == nil {
		return
	}

	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := h.shopping.RenameList(list.ID, list.HouseholdID, req.Name)
	if err != nil {
		h.logger.Error("rename shopping list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to rename list")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ShoppingHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	list := h.ownedList(w, r)
	if list == nil {
		return
	}

	if err := h.shopping.DeleteList(list.ID, list.HouseholdID); err != nil {
		h.logger.Error("delete shopping list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete list")
		return
	}

	h.hub.Broadcast(list.HouseholdID, websocket.NewMessage("shopping_list", "deleted", list.ID, nil))
	w.WriteHeader(http.StatusNoContent)
}

type itemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
}

func (h *ShoppingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	list := h.ownedList(w, r)
	if list == nil {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	item, err := h.shopping.AddItem(list.ID, req.Name, req.Quantity, req.Category)
	if err != nil {
		h.logger.Error("add shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	h.hub.Broadcast(list.HouseholdID, websocket.NewMessage("shopping_item", "created", item.ID, map[string]any{"list_id": list.ID}))
	writeJSON(w, http.StatusCreated, item)
}

type checkRequest struct {
	Checked bool `json:"checked"`
}

func (h *ShoppingHandler) CheckItem(w http.ResponseWriter, r *http.Request) {
	list, item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	updated, err := h.shopping.SetChecked(item.ID, req.Checked, time.Now())
	if err != nil {
		h.logger.Error("check shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.hub.Broadcast(list.HouseholdID, websocket.NewMessage("shopping_item", "updated", item.ID, map[string]any{"list_id": list.ID}))
	writeJSON(w, http.StatusOK, updated)
}

func (h *ShoppingHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	list, item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	var req itemRequest
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
	item.Quantity = req.Quantity
	item.Category = req.Category
	updated, err := h.shopping.UpdateItem(item)
	if err != nil {
		h.logger.Error("update shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.hub.Broadcast(list.HouseholdID, websocket.NewMessage("shopping_item", "updated", item.ID, map[string]any{"list_id": list.ID}))
	writeJSON(w, http.StatusOK, updated)
}

func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	list, item := h.ownedItem(w, r)
	if item == nil {
		return
	}

	if err := h.shopping.DeleteItem(item.ID); err != nil {
		h.logger.Error("delete shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.hub.Broadcast(list.HouseholdID, websocket.NewMessage("shopping_item", "deleted", item.ID, map[string]any{"list_id": list.ID}))
	w.WriteHeader(http.StatusNoContent)
}

// ClearChecked removes every checked item from the list.
func (h *ShoppingHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	list := h.ownedList(w, r)
	if list == nil {
		return
	}

	n, err := h.shopping.ClearChecked(list.ID)
	if err != nil {
		h.logger.Error("clear checked items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear items")
		return
	}

	h.hub.Broadcast(list.HouseholdID, websocket.NewMessage("shopping_list", "updated", list.ID, nil))
	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}

func (h *ShoppingHandler) ownedList(w http.ResponseWriter, r *http.Request) *model.ShoppingList {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return nil
	}
	list, err := h.shopping.GetList(id, auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("get shopping list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return nil
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return nil
	}
	return list
}

// ownedItem resolves the item path parameter and checks that its list
// belongs to the household.
func (h *ShoppingHandler) ownedItem(w http.ResponseWriter, r *http.Request) (*model.ShoppingList, *model.ShoppingListItem) {
	list := h.ownedList(w, r)
	if list == nil {
		return nil, nil
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return nil, nil
	}
	item, err := h.shopping.GetItem(itemID)
	if err != nil {
		h.logger.Error("get shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return nil, nil
	}
	if item == nil || item.ListID != list.ID {
		writeError(w, http.StatusNotFound, "item not found")
		return nil, nil
	}
	return list, item
}

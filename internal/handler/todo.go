package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/store"
	"github.com/halvarsson/hemma/internal/websocket"
)

type TodoHandler struct {
	todos  *store.TodoStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewTodoHandler(ts *store.TodoStore, hub *websocket.Hub, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{todos: ts, hub: hub, logger: logger.With("component", "todos")}
}

type todoRequest struct {
	EventID     *int64  `json:"event_id"`
	PhaseID     *int64  `json:"phase_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
}

func (h *TodoHandler) parseAndValidate(w http.ResponseWriter, r *http.Request) (*model.Todo, bool) {
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return nil, false
	}

	priority := model.TodoPriority(req.Priority)
	if req.Priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		writeError(w, http.StatusBadRequest, "invalid priority")
		return nil, false
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := parseFlexibleTime(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "due_date must be RFC3339 or YYYY-MM-DD format")
			return nil, false
		}
		dueDate = &t
	}

	return &model.Todo{
		HouseholdID: auth.HouseholdID(r.Context()),
		EventID:     req.EventID,
		PhaseID:     req.PhaseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Priority:    priority,
		Category:    req.Category,
	}, true
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	todo, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	created, err := h.todos.Create(todo)
	if err != nil {
		h.logger.Error("create todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create todo")
		return
	}

	h.hub.Broadcast(created.HouseholdID, websocket.NewMessage("todo", "created", created.ID, nil))
	writeJSON(w, http.StatusCreated, created)
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID, err := optionalID(r, "event_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event_id")
		return
	}
	includeCompleted := r.URL.Query().Get("include_completed") == "true"

	todos, err := h.todos.List(auth.HouseholdID(r.Context()), eventID, includeCompleted)
	if err != nil {
		h.logger.Error("list todos", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list todos")
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

// Due returns incomplete todos due today or overdue.
func (h *TodoHandler) Due(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todos.ListDueOrOverdue(auth.HouseholdID(r.Context()), time.Now())
	if err != nil {
		h.logger.Error("list due todos", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list todos")
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	todo, err := h.todos.GetByID(id, auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("get todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get todo")
		return
	}
	if todo == nil {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	todo, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}
	todo.ID = id

	existing, err := h.todos.GetByID(id, todo.HouseholdID)
	if err != nil {
		h.logger.Error("get todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update todo")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}

	updated, err := h.todos.Update(todo)
	if err != nil {
		h.logger.Error("update todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update todo")
		return
	}

	h.hub.Broadcast(updated.HouseholdID, websocket.NewMessage("todo", "updated", updated.ID, nil))
	writeJSON(w, http.StatusOK, updated)
}

type completeRequest struct {
	By string `json:"by"`
}

func (h *TodoHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.By = ""
	}

	householdID := auth.HouseholdID(r.Context())
	todo, err := h.todos.Complete(id, householdID, strings.TrimSpace(req.By), time.Now())
	if err != nil {
		h.logger.Error("complete todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to complete todo")
		return
	}
	if todo == nil {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("todo", "completed", id, nil))
	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	todo, err := h.todos.Uncomplete(id, householdID)
	if err != nil {
		h.logger.Error("uncomplete todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update todo")
		return
	}
	if todo == nil {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("todo", "updated", id, nil))
	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	if err := h.todos.Delete(id, householdID); err != nil {
		h.logger.Error("delete todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete todo")
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("todo", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

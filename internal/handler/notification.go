package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/notify"
	"github.com/halvarsson/hemma/internal/reminder"
	"github.com/halvarsson/hemma/internal/store"
)

type NotificationHandler struct {
	notifications *store.NotificationStore
	events        *store.EventStore
	todos         *store.TodoStore
	scheduler     *reminder.Scheduler
	sweeper       *notify.Sweeper
	logger        *slog.Logger
}

func NewNotificationHandler(ns *store.NotificationStore, es *store.EventStore, ts *store.TodoStore, scheduler *reminder.Scheduler, sweeper *notify.Sweeper, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: ns,
		events:        es,
		todos:         ts,
		scheduler:     scheduler,
		sweeper:       sweeper,
		logger:        logger.With("component", "notifications"),
	}
}

// List returns delivered notifications, newest first. ?unread=true narrows
// to unread ones, ?limit caps the page (default 50).
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 200 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	notifications, err := h.notifications.ListByHousehold(auth.HouseholdID(r.Context()), unreadOnly, limit)
	if err != nil {
		h.logger.Error("list notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

// ListScheduled returns the pending queue: created but not yet promoted by
// the sweep.
func (h *NotificationHandler) ListScheduled(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notifications.ListScheduled(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list scheduled notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	n := h.ownedNotification(w, r)
	if n == nil {
		return
	}

	if err := h.notifications.MarkRead(n.ID, n.HouseholdID); err != nil {
		h.logger.Error("mark notification read", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	n := h.ownedNotification(w, r)
	if n == nil {
		return
	}

	if err := h.notifications.Delete(n.ID, n.HouseholdID); err != nil {
		h.logger.Error("delete notification", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reminderRequest struct {
	EventID *int64           `json:"event_id"`
	TodoID  *int64           `json:"todo_id"`
	Offset  *reminder.Offset `json:"offset"`
	At      *string          `json:"at"`
}

// CreateReminder persists a reminder declaration as a scheduled
// notification against an event or a todo.
func (h *NotificationHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if (req.EventID == nil) == (req.TodoID == nil) {
		writeError(w, http.StatusBadRequest, "exactly one of event_id or todo_id is required")
		return
	}

	decl := reminder.Declaration{Offset: req.Offset}
	if req.At != nil && *req.At != "" {
		at, err := parseFlexibleTime(*req.At)
		if err != nil {
			writeError(w, http.StatusBadRequest, "at must be RFC3339 or YYYY-MM-DD format")
			return
		}
		decl.At = &at
	}

	householdID := auth.HouseholdID(r.Context())

	var (
		notification *model.Notification
		err          error
	)
	if req.EventID != nil {
		event, getErr := h.events.GetByID(*req.EventID, householdID)
		if getErr != nil {
			h.logger.Error("get event", "error", getErr)
			writeError(w, http.StatusInternalServerError, "failed to create reminder")
			return
		}
		if event == nil {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		notification, err = h.scheduler.ScheduleForEvent(event, decl)
	} else {
		todo, getErr := h.todos.GetByID(*req.TodoID, householdID)
		if getErr != nil {
			h.logger.Error("get todo", "error", getErr)
			writeError(w, http.StatusInternalServerError, "failed to create reminder")
			return
		}
		if todo == nil {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		notification, err = h.scheduler.ScheduleForTodo(todo, decl)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, notification)
}

// Process runs one sweep immediately and reports how many notifications
// were promoted. The periodic sweep makes this optional; it exists so a
// client or operator can flush the queue without waiting for the ticker.
func (h *NotificationHandler) Process(w http.ResponseWriter, r *http.Request) {
	promoted, err := h.sweeper.SweepOnce()
	if err != nil {
		h.logger.Error("sweep", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process notifications")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"promoted":     promoted,
		"processed_at": time.Now().UTC(),
	})
}

func (h *NotificationHandler) ownedNotification(w http.ResponseWriter, r *http.Request) *model.Notification {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}
	n, err := h.notifications.GetByID(id, auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("get notification", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load notification")
		return nil
	}
	if n == nil {
		writeError(w, http.StatusNotFound, "notification not found")
		return nil
	}
	return n
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/recurrence"
	"github.com/halvarsson/hemma/internal/store"
	"github.com/halvarsson/hemma/internal/websocket"
)

type EventHandler struct {
	events *store.EventStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewEventHandler(es *store.EventStore, hub *websocket.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: es, hub: hub, logger: logger.With("component", "events")}
}

type eventRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	AllDay         bool   `json:"all_day"`
	Recurring      bool   `json:"recurring"`
	RecurrenceRule string `json:"recurrence_rule"`
	ThemeOverride  bool   `json:"theme_override"`
	Location       string `json:"location"`
}

func (h *EventHandler) parseAndValidate(w http.ResponseWriter, r *http.Request) (*model.Event, bool) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return nil, false
	}

	category := model.EventCategory(req.Category)
	if req.Category == "" {
		category = model.CategoryOther
	}
	if !category.Valid() {
		writeError(w, http.StatusBadRequest, "invalid category")
		return nil, false
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_time must be RFC3339 format")
		return nil, false
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_time must be RFC3339 format")
		return nil, false
	}
	if !startTime.Before(endTime) {
		writeError(w, http.StatusBadRequest, "start_time must be before end_time")
		return nil, false
	}

	if req.Recurring {
		if _, err := recurrence.Parse(req.RecurrenceRule); err != nil {
			writeError(w, http.StatusBadRequest, "invalid recurrence_rule")
			return nil, false
		}
	} else {
		req.RecurrenceRule = ""
	}

	return &model.Event{
		HouseholdID:    auth.HouseholdID(r.Context()),
		Title:          req.Title,
		Description:    req.Description,
		Category:       category,
		StartTime:      startTime,
		EndTime:        endTime,
		AllDay:         req.AllDay,
		Recurring:      req.Recurring,
		RecurrenceRule: req.RecurrenceRule,
		ThemeOverride:  req.ThemeOverride,
		Location:       req.Location,
	}, true
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	event, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	created, err := h.events.Create(event)
	if err != nil {
		h.logger.Error("create event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	h.hub.Broadcast(created.HouseholdID, websocket.NewMessage("event", "created", created.ID, nil))
	writeJSON(w, http.StatusCreated, created)
}

// List returns events overlapping [start, end), expanding recurring series
// into concrete occurrences.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		writeError(w, http.StatusBadRequest, "start and end query parameters are required")
		return
	}

	start, err := parseFlexibleTime(startStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be RFC3339 or YYYY-MM-DD format")
		return
	}
	end, err := parseFlexibleTime(endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be RFC3339 or YYYY-MM-DD format")
		return
	}

	householdID := auth.HouseholdID(r.Context())

	events, err := h.events.ListByDateRange(householdID, start, end)
	if err != nil {
		h.logger.Error("list events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	recurring, err := h.events.ListRecurring(householdID, end)
	if err != nil {
		h.logger.Error("list recurring events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	for _, series := range recurring {
		rule, err := recurrence.Parse(series.RecurrenceRule)
		if err != nil {
			h.logger.Warn("skipping event with bad recurrence rule", "event_id", series.ID, "error", err)
			continue
		}
		for _, occ := range recurrence.Expand(rule, series.StartTime, series.EndTime, start, end) {
			instance := series
			instance.StartTime = occ.Start
			instance.EndTime = occ.End
			events = append(events, instance)
		}
	}

	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListUpcoming(auth.HouseholdID(r.Context()), time.Now(), 10)
	if err != nil {
		h.logger.Error("list upcoming events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	event, err := h.events.GetByID(id, auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("get event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	event, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}
	event.ID = id

	existing, err := h.events.GetByID(id, event.HouseholdID)
	if err != nil {
		h.logger.Error("get event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	updated, err := h.events.Update(event)
	if err != nil {
		h.logger.Error("update event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}

	h.hub.Broadcast(updated.HouseholdID, websocket.NewMessage("event", "updated", updated.ID, nil))
	writeJSON(w, http.StatusOK, updated)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	if err := h.events.Delete(id, householdID); err != nil {
		h.logger.Error("delete event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("event", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

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
	"github.com/halvarsson/hemma/internal/timeline"
)

type TimelineHandler struct {
	phases *store.TimelineStore
	events *store.EventStore
	logger *slog.Logger
}

func NewTimelineHandler(ts *store.TimelineStore, es *store.EventStore, logger *slog.Logger) *TimelineHandler {
	return &TimelineHandler{phases: ts, events: es, logger: logger.With("component", "timeline")}
}

// ownedEvent loads the event from the id path parameter, enforcing
// household scope.
func (h *TimelineHandler) ownedEvent(w http.ResponseWriter, r *http.Request) *model.Event {
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

type phaseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WeeksBefore int    `json:"weeks_before"`
}

func (h *TimelineHandler) CreatePhase(w http.ResponseWriter, r *http.Request) {
	event := h.ownedEvent(w, r)
	if event == nil {
		return
	}

	var req phaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.WeeksBefore < 0 {
		writeError(w, http.StatusBadRequest, "weeks_before must not be negative")
		return
	}

	phase, err := h.phases.Create(event.ID, req.Name, req.Description, req.WeeksBefore)
	if err != nil {
		h.logger.Error("create phase", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create phase")
		return
	}
	writeJSON(w, http.StatusCreated, phase)
}

// Projection returns the event's derived timeline: phases with their
// current status plus the synthetic event-day step.
func (h *TimelineHandler) Projection(w http.ResponseWriter, r *http.Request) {
	event := h.ownedEvent(w, r)
	if event == nil {
		return
	}

	phases, err := h.phases.ListByEvent(event.ID)
	if err != nil {
		h.logger.Error("list phases", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load timeline")
		return
	}

	writeJSON(w, http.StatusOK, timeline.Project(event, phases, time.Now()))
}

func (h *TimelineHandler) UpdatePhase(w http.ResponseWriter, r *http.Request) {
	phase := h.ownedPhase(w, r)
	if phase == nil {
		return
	}

	var req phaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.WeeksBefore < 0 {
		writeError(w, http.StatusBadRequest, "weeks_before must not be negative")
		return
	}

	updated, err := h.phases.Update(phase.ID, req.Name, req.Description, req.WeeksBefore)
	if err != nil {
		h.logger.Error("update phase", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update phase")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *TimelineHandler) DeletePhase(w http.ResponseWriter, r *http.Request) {
	phase := h.ownedPhase(w, r)
	if phase == nil {
		return
	}

	if err := h.phases.Delete(phase.ID); err != nil {
		h.logger.Error("delete phase", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete phase")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedPhase loads a phase and verifies its event belongs to the
// household.
func (h *TimelineHandler) ownedPhase(w http.ResponseWriter, r *http.Request) *model.TimelinePhase {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}
	phase, err := h.phases.GetByID(id)
	if err != nil {
		h.logger.Error("get phase", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load phase")
		return nil
	}
	if phase == nil {
		writeError(w, http.StatusNotFound, "phase not found")
		return nil
	}
	event, err := h.events.GetByID(phase.EventID, auth.HouseholdID(r.Context()))
	if err != nil || event == nil {
		writeError(w, http.StatusNotFound, "phase not found")
		return nil
	}
	return phase
}

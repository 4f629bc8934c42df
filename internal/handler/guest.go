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

type GuestHandler struct {
	guests *store.GuestStore
	events *store.EventStore
	logger *slog.Logger
}

func NewGuestHandler(gs *store.GuestStore, es *store.EventStore, logger *slog.Logger) *GuestHandler {
	return &GuestHandler{guests: gs, events: es, logger: logger.With("component", "guests")}
}

type guestRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	RSVP     string `json:"rsvp"`
	PlusOnes int    `json:"plus_ones"`
}

func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	event := h.ownedEvent(w, r)
	if event == nil {
		return
	}

	var req guestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.PlusOnes < 0 {
		writeError(w, http.StatusBadRequest, "plus_ones must not be negative")
		return
	}

	guest, err := h.guests.Create(&model.Guest{
		EventID:  event.ID,
		Name:     req.Name,
		Email:    req.Email,
		RSVP:     model.RSVPStatus(req.RSVP),
		PlusOnes: req.PlusOnes,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, guest)
}

// List returns an event's guests together with RSVP counts.
func (h *GuestHandler) List(w http.ResponseWriter, r *http.Request) {
	event := h.ownedEvent(w, r)
	if event == nil {
		return
	}

	guests, err := h.guests.ListByEvent(event.ID)
	if err != nil {
		h.logger.Error("list guests", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list guests")
		return
	}
	if guests == nil {
		guests = []model.Guest{}
	}

	counts, err := h.guests.CountByEvent(event.ID)
	if err != nil {
		h.logger.Error("count guests", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list guests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"guests": guests,
		"counts": counts,
	})
}

func (h *GuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	guest := h.ownedGuest(w, r)
	if guest == nil {
		return
	}

	var req guestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.PlusOnes < 0 {
		writeError(w, http.StatusBadRequest, "plus_ones must not be negative")
		return
	}

	guest.Name = req.Name
	guest.Email = req.Email
	guest.RSVP = model.RSVPStatus(req.RSVP)
	guest.PlusOnes = req.PlusOnes

	updated, err := h.guests.Update(guest)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	guest := h.ownedGuest(w, r)
	if guest == nil {
		return
	}

	if err := h.guests.Delete(guest.ID); err != nil {
		h.logger.Error("delete guest", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete guest")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GuestHandler) ownedEvent(w http.ResponseWriter, r *http.Request) *model.Event {
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

// ownedGuest checks that the guest's event belongs to the household.
func (h *GuestHandler) ownedGuest(w http.ResponseWriter, r *http.Request) *model.Guest {
	event := h.ownedEvent(w, r)
	if event == nil {
		return nil
	}

	guestID, err := strconv.ParseInt(r.PathValue("guestID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid guest id")
		return nil
	}
	guest, err := h.guests.GetByID(guestID)
	if err != nil {
		h.logger.Error("get guest", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load guest")
		return nil
	}
	if guest == nil || guest.EventID != event.ID {
		writeError(w, http.StatusNotFound, "guest not found")
		return nil
	}
	return guest
}

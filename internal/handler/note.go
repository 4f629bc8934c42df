package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/store"
)

type NoteHandler struct {
	notes  *store.NoteStore
	logger *slog.Logger
}

func NewNoteHandler(ns *store.NoteStore, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: ns, logger: logger.With("component", "notes")}
}

type noteRequest struct {
	EventID *int64 `json:"event_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned"`
}

func (h *NoteHandler) parseAndValidate(w http.ResponseWriter, r *http.Request) (*model.Note, bool) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return nil, false
	}
	return &model.Note{
		HouseholdID: auth.HouseholdID(r.Context()),
		EventID:     req.EventID,
		Title:       req.Title,
		Content:     req.Content,
		Pinned:      req.Pinned,
	}, true
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	note, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	created, err := h.notes.Create(note)
	if err != nil {
		h.logger.Error("create note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create note")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())

	var notes []model.Note
	var err error
	if term := r.URL.Query().Get("q"); term != "" {
		notes, err = h.notes.Search(householdID, term)
	} else {
		var eventID *int64
		eventID, err = optionalID(r, "event_id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid event_id")
			return
		}
		notes, err = h.notes.List(householdID, eventID)
	}
	if err != nil {
		h.logger.Error("list notes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	note, err := h.notes.GetByID(id, auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("get note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get note")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	note, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}
	note.ID = id

	existing, err := h.notes.GetByID(id, note.HouseholdID)
	if err != nil {
		h.logger.Error("get note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update note")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	updated, err := h.notes.Update(note)
	if err != nil {
		h.logger.Error("update note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update note")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.notes.Delete(id, auth.HouseholdID(r.Context())); err != nil {
		h.logger.Error("delete note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

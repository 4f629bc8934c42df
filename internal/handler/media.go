package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/storage"
	"github.com/halvarsson/hemma/internal/store"
)

// maxUploadBytes caps image uploads at 10 MiB.
const maxUploadBytes = 10 << 20

type MediaHandler struct {
	media   *store.MediaStore
	storage *storage.Store
	logger  *slog.Logger
}

func NewMediaHandler(ms *store.MediaStore, st *storage.Store, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{media: ms, storage: st, logger: logger.With("component", "media")}
}

// UploadImage accepts a multipart form with a "file" part and an optional
// "event_id" field. Bytes go to object storage, metadata to the database.
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if !h.storage.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "only image uploads are allowed")
		return
	}

	var eventID *int64
	if s := r.FormValue("event_id"); s != "" {
		id, err := parseID(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid event_id")
			return
		}
		eventID = &id
	}

	householdID := auth.HouseholdID(r.Context())
	key := storage.NewKey(householdID, header.Filename)

	if err := h.storage.Upload(r.Context(), key, contentType, data); err != nil {
		h.logger.Error("upload image", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	img, err := h.media.CreateImage(&model.Image{
		HouseholdID: householdID,
		EventID:     eventID,
		Filename:    header.Filename,
		StorageKey:  key,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	})
	if err != nil {
		h.logger.Error("record image", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

func (h *MediaHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	eventID, err := optionalID(r, "event_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event_id")
		return
	}

	images, err := h.media.ListImages(auth.HouseholdID(r.Context()), eventID)
	if err != nil {
		h.logger.Error("list images", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list images")
		return
	}
	if images == nil {
		images = []model.Image{}
	}
	writeJSON(w, http.StatusOK, images)
}

// ServeImage streams the image bytes back from object storage.
func (h *MediaHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	img := h.ownedImage(w, r)
	if img == nil {
		return
	}

	data, err := h.storage.Get(r.Context(), img.StorageKey)
	if err != nil {
		h.logger.Error("fetch image", "error", err, "key", img.StorageKey)
		writeError(w, http.StatusInternalServerError, "failed to fetch image")
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Disposition", `inline; filename="`+url.PathEscape(img.Filename)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// DeleteImage removes both the object and its metadata row. A missing
// object does not block the metadata delete.
func (h *MediaHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	img := h.ownedImage(w, r)
	if img == nil {
		return
	}

	if h.storage.Enabled() {
		if err := h.storage.Delete(r.Context(), img.StorageKey); err != nil {
			h.logger.Warn("delete image object", "error", err, "key", img.StorageKey)
		}
	}

	if err := h.media.DeleteImage(img.ID, img.HouseholdID); err != nil {
		h.logger.Error("delete image", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type linkRequest struct {
	EventID *int64 `json:"event_id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

func (h *MediaHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if u, err := url.Parse(req.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		writeError(w, http.StatusBadRequest, "url must be http or https")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		req.Title = req.URL
	}

	link, err := h.media.CreateLink(&model.Link{
		HouseholdID: auth.HouseholdID(r.Context()),
		EventID:     req.EventID,
		Title:       strings.TrimSpace(req.Title),
		URL:         req.URL,
	})
	if err != nil {
		h.logger.Error("create link", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create link")
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *MediaHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	eventID, err := optionalID(r, "event_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event_id")
		return
	}

	links, err := h.media.ListLinks(auth.HouseholdID(r.Context()), eventID)
	if err != nil {
		h.logger.Error("list links", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list links")
		return
	}
	if links == nil {
		links = []model.Link{}
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *MediaHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.media.DeleteLink(id, auth.HouseholdID(r.Context())); err != nil {
		h.logger.Error("delete link", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete link")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MediaHandler) ownedImage(w http.ResponseWriter, r *http.Request) *model.Image {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}
	img, err := h.media.GetImage(id, auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("get image", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load image")
		return nil
	}
	if img == nil {
		writeError(w, http.StatusNotFound, "image not found")
		return nil
	}
	return img
}

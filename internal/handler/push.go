package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/halvarsson/hemma/internal/auth"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/push"
	"github.com/halvarsson/hemma/internal/store"
)

type PushHandler struct {
	subscriptions *store.PushStore
	service       *push.Service
	logger        *slog.Logger
}

func NewPushHandler(ps *store.PushStore, service *push.Service, logger *slog.Logger) *PushHandler {
	return &PushHandler{subscriptions: ps, service: service, logger: logger.With("component", "push")}
}

// VAPIDKey hands the public key to the browser for subscription.
func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	key := h.service.VAPIDPublicKey()
	if key == "" {
		writeError(w, http.StatusServiceUnavailable, "push notifications not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"public_key": key})
}

type subscribeRequest struct {
	Endpoint   string `json:"endpoint"`
	P256dhKey  string `json:"p256dh_key"`
	AuthKey    string `json:"auth_key"`
	DeviceName string `json:"device_name"`
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Endpoint = strings.TrimSpace(req.Endpoint)
	if req.Endpoint == "" || req.P256dhKey == "" || req.AuthKey == "" {
		writeError(w, http.StatusBadRequest, "endpoint, p256dh_key and auth_key are required")
		return
	}

	sub, err := h.subscriptions.Upsert(&model.PushSubscription{
		HouseholdID: auth.HouseholdID(r.Context()),
		Endpoint:    req.Endpoint,
		P256dhKey:   req.P256dhKey,
		AuthKey:     req.AuthKey,
		DeviceName:  req.DeviceName,
	})
	if err != nil {
		h.logger.Error("subscribe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "endpoint is required")
		return
	}

	// Only drop endpoints belonging to this household.
	sub, err := h.subscriptions.GetByEndpoint(req.Endpoint)
	if err != nil {
		h.logger.Error("get subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove subscription")
		return
	}
	if sub == nil || sub.HouseholdID != auth.HouseholdID(r.Context()) {
		writeError(w, http.StatusNotFound, "subscription not found")
		return
	}

	if err := h.subscriptions.DeleteByEndpoint(req.Endpoint); err != nil {
		h.logger.Error("delete subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove subscription")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TestPush sends a test notification to every device in the household so
// the user can verify their subscription works.
func (h *PushHandler) TestPush(w http.ResponseWriter, r *http.Request) {
	if h.service.VAPIDPublicKey() == "" {
		writeError(w, http.StatusServiceUnavailable, "push notifications not configured")
		return
	}

	subs, err := h.subscriptions.ListByHousehold(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}
	if len(subs) == 0 {
		writeError(w, http.StatusNotFound, "no subscriptions registered")
		return
	}

	payload := push.Payload{
		Title: "Testnotis",
		Body:  "Pushnotiser fungerar!",
		URL:   "/",
		Tag:   "test",
	}
	sent := 0
	for i := range subs {
		if err := h.service.Send(&subs[i], payload); err != nil {
			h.logger.Warn("test push failed", "endpoint", subs[i].Endpoint, "error", err)
			continue
		}
		sent++
	}
	writeJSON(w, http.StatusOK, map[string]int{"sent": sent, "devices": len(subs)})
}

// ListSubscriptions shows the household's registered devices.
func (h *PushHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subscriptions.ListByHousehold(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}
	if subs == nil {
		subs = []model.PushSubscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

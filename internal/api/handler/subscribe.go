package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ahssan23/medication-tracker/internal/api/respond"
	"github.com/Ahssan23/medication-tracker/internal/auth"
	"github.com/Ahssan23/medication-tracker/internal/model"
)

// SubscribeRequest mirrors the browser PushSubscription JSON the client posts
// after pushManager.subscribe.
type SubscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// VAPIDPublicKey returns the server's VAPID public key for the client's
// pushManager.subscribe call.
// @Summary VAPID public key
// @Tags subscribe
// @Produce json
// @Success 200 {object} map[string]string
// @Router /subscribe/vapid [get]
func (h *Handler) VAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	if h.cfg.VAPIDPublicKey == "" {
		respond.WriteError(w, http.StatusServiceUnavailable, "PUSH_DISABLED", "Push notifications are not configured")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"publicKey": h.cfg.VAPIDPublicKey})
}

// Subscribe registers a push endpoint for the authenticated user.
// Re-registering the same endpoint is a no-op apart from refreshing its keys.
// @Summary Register a push subscription
// @Tags subscribe
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubscribeRequest true "browser PushSubscription"
// @Success 201 {object} map[string]string
// @Failure 400 {object} respond.ErrorResponse
// @Router /subscribe [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	req.Endpoint = strings.TrimSpace(req.Endpoint)
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "endpoint, keys.p256dh, and keys.auth are required")
		return
	}

	sub := &model.Subscription{
		Endpoint:  req.Endpoint,
		UserID:    userID,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.subs.Register(r.Context(), sub); err != nil {
		slog.Error("register subscription failed", "user_id", userID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Error saving subscription")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]string{"message": "Subscribed"})
}

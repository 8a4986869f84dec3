package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/caravanly/caravan-api/internal/application/billing"
	"github.com/caravanly/caravan-api/internal/domain"
	"github.com/caravanly/caravan-api/internal/pkg/validate"
	"github.com/caravanly/caravan-api/internal/transport/http/middleware"
)

// BillingHandler handles the RevenueCat webhook and entitlement reads.
type BillingHandler struct {
	svc billing.Service
}

func NewBillingHandler(svc billing.Service) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// revenueCatPayload mirrors the provider's envelope: the event sits under
// an "event" key.
type revenueCatPayload struct {
	Event domain.WebhookEvent `json:"event"`
}

// Webhook applies a RevenueCat event. The shared-secret check happens in
// middleware before this handler runs.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var payload revenueCatPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}
	if err := validate.Struct(payload.Event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.svc.Apply(r.Context(), payload.Event); err != nil {
		slog.Warn("webhook rejected", "type", payload.Event.Type, "app_user_id", payload.Event.AppUserID, "err", err)
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "applied"})
}

// GetMySubscription returns the caller's entitlement. Users the billing
// provider has never reported on read as an expired free plan.
func (h *BillingHandler) GetMySubscription(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sub, err := h.svc.GetStatus(r.Context(), claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		sub = &domain.Subscription{
			AppUserID: claims.UserID,
			Status:    domain.SubscriptionExpired,
			Plan:      domain.PlanFree,
		}
		err = nil
	}
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

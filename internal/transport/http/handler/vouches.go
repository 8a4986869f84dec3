package handler

import (
	"encoding/json"
	"net/http"

	"github.com/caravanly/caravan-api/internal/application/vouch"
	"github.com/caravanly/caravan-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// VouchHandler handles vouch endpoints.
type VouchHandler struct {
	svc vouch.Service
}

func NewVouchHandler(svc vouch.Service) *VouchHandler {
	return &VouchHandler{svc: svc}
}

func (h *VouchHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		VoucheeID string `json:"vouchee_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VoucheeID == "" {
		writeError(w, http.StatusBadRequest, "vouchee_id required")
		return
	}
	v, err := h.svc.Create(r.Context(), claims.UserID, req.VoucheeID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// ListForUser returns the vouches a profile has received.
func (h *VouchHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	vouches, count, err := h.svc.ListForUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VouchListEnvelope{Data: vouches, Count: count})
}

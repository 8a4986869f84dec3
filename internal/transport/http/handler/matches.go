package handler

import (
	"encoding/json"
	"net/http"

	"github.com/caravanly/caravan-api/internal/application/match"
	"github.com/caravanly/caravan-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// MatchHandler handles match-request endpoints.
type MatchHandler struct {
	svc match.Service
}

func NewMatchHandler(svc match.Service) *MatchHandler {
	return &MatchHandler{svc: svc}
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		TargetID string `json:"target_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TargetID == "" {
		writeError(w, http.StatusBadRequest, "target_id required")
		return
	}
	m, err := h.svc.Create(r.Context(), claims.UserID, req.TargetID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MatchEnvelope{Match: m})
}

func (h *MatchHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := h.svc.Resolve(r.Context(), chi.URLParam(r, "id"), req.Decision, claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MatchEnvelope{Match: m})
}

func (h *MatchHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	requests, err := h.svc.ListSent(r.Context(), claims.UserID, r.URL.Query().Get("status"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MatchListEnvelope{Data: requests})
}

func (h *MatchHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	requests, err := h.svc.ListReceived(r.Context(), claims.UserID, r.URL.Query().Get("status"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MatchListEnvelope{Data: requests})
}

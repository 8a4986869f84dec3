package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caravanly/caravan-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// AuthEnvelope wraps verify-code and refresh responses.
type AuthEnvelope struct {
	Bearer       string          `json:"token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	Session      *domain.Session `json:"session,omitempty"`
	Message      string          `json:"message,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// SessionEnvelope wraps current-session responses.
type SessionEnvelope struct {
	Session *domain.Session `json:"session,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// UserEnvelope wraps single-profile responses with the received vouch count.
type UserEnvelope struct {
	User       *domain.User `json:"user,omitempty"`
	VouchCount int          `json:"vouch_count"`
	Error      string       `json:"error,omitempty"`
}

// PaginatedUsersEnvelope wraps cursor-paginated user list responses.
type PaginatedUsersEnvelope struct {
	Data       []domain.User `json:"data"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// MatchEnvelope wraps single match-request responses.
type MatchEnvelope struct {
	Match *domain.MatchRequest `json:"match,omitempty"`
	Error string               `json:"error,omitempty"`
}

// MatchListEnvelope wraps match-request listings.
type MatchListEnvelope struct {
	Data  []domain.MatchRequest `json:"data"`
	Error string                `json:"error,omitempty"`
}

// VouchListEnvelope wraps received-vouch listings.
type VouchListEnvelope struct {
	Data  []domain.Vouch `json:"data"`
	Count int            `json:"count"`
	Error string         `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes. Anything not
// wrapping a sentinel is treated as an internal error and its detail kept
// out of the response.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Operation-specific sentinels. Each wraps the generic sentinel it maps to,
// so services and tests can branch on the exact failure while the HTTP layer
// keeps matching on the generic set above.
var (
	ErrInvalidCode      = fmt.Errorf("invalid code: %w", ErrUnauthorized)
	ErrCodeExpired      = fmt.Errorf("code expired: %w", ErrUnauthorized)
	ErrSelfMatch        = fmt.Errorf("cannot send a match request to yourself: %w", ErrBadRequest)
	ErrSelfVouch        = fmt.Errorf("cannot vouch for yourself: %w", ErrBadRequest)
	ErrDuplicateRequest = fmt.Errorf("match request already exists for this pair: %w", ErrConflict)
	ErrDuplicateVouch   = fmt.Errorf("already vouched for this user: %w", ErrConflict)
	ErrAlreadyResolved  = fmt.Errorf("match request already resolved: %w", ErrConflict)
	ErrNotRequestTarget = fmt.Errorf("only the request target may resolve it: %w", ErrForbidden)
	ErrUnknownEvent     = fmt.Errorf("unknown webhook event type: %w", ErrBadRequest)
)

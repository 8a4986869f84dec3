package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// WebhookToken returns middleware that guards provider webhook endpoints
// with a static shared secret sent as "Authorization: Bearer <token>".
// An empty configured token rejects all requests rather than opening the
// endpoint.
func WebhookToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "webhook auth not configured")
				return
			}
			authHeader := r.Header.Get("Authorization")
			presented := strings.TrimPrefix(authHeader, "Bearer ")
			if !strings.HasPrefix(authHeader, "Bearer ") ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "invalid webhook token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

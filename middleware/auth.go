package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// APIKeyAuthMiddleware guards operator endpoints with a shared bearer key
type APIKeyAuthMiddleware struct {
	apiKey string
}

// NewAPIKeyAuthMiddleware creates the middleware. With an empty key every request is rejected.
func NewAPIKeyAuthMiddleware(apiKey string) *APIKeyAuthMiddleware {
	return &APIKeyAuthMiddleware{apiKey: apiKey}
}

// WithAuth wraps an HTTP handler with bearer key authentication
func (m *APIKeyAuthMiddleware) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("🔐 Authentication middleware processing request from %s", r.RemoteAddr)

		if m.apiKey == "" {
			log.Printf("❌ Admin API key is not configured - rejecting request")
			m.writeErrorResponse(w, "admin api is disabled", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ Missing Authorization header")
			m.writeErrorResponse(w, "missing authorization header", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Printf("❌ Invalid Authorization header format")
			m.writeErrorResponse(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(m.apiKey)) != 1 {
			log.Printf("❌ Invalid admin API key")
			m.writeErrorResponse(w, "invalid token", http.StatusUnauthorized)
			return
		}

		log.Printf("✅ Admin request authenticated")
		next(w, r)
	}
}

// writeErrorResponse writes a standardized error response
func (m *APIKeyAuthMiddleware) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("❌ Failed to encode error response: %v", err)
	}
}

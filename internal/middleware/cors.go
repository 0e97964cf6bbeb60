// Package middleware provides HTTP middleware for the complaint platform.
package middleware

import (
	"net/http"
	"strings"
)

// CORSMiddleware handles Cross-Origin Resource Sharing. The browser
// frontend sends credentialed requests, so the configured origin is
// echoed back rather than a wildcard.
type CORSMiddleware struct {
	allowedOrigins []string
	allowAll       bool
}

// NewCORSMiddleware creates a new CORS middleware.
func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
			break
		}
	}

	return &CORSMiddleware{
		allowedOrigins: allowedOrigins,
		allowAll:       allowAll,
	}
}

// Handler returns the CORS middleware handler.
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && (m.allowAll || m.isOriginAllowed(origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *CORSMiddleware) isOriginAllowed(origin string) bool {
	for _, allowed := range m.allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

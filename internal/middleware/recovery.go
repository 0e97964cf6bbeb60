package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// RecoveryMiddleware converts panics into 500 responses. Panic details
// are logged but never sent to the client.
func RecoveryMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithFields(map[string]interface{}{
						"panic": rec,
						"path":  r.URL.Path,
						"stack": string(debug.Stack()),
					}).Error("Panic recovered in HTTP handler")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

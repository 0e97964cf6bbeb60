package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// Claims are the JWT claims issued at login.
type Claims struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates bearer tokens on API requests.
type AuthMiddleware struct {
	secret       []byte
	logger       *logger.Logger
	skipPaths    map[string]bool
	skipPrefixes []string
}

// NewAuthMiddleware creates a new authentication middleware. Requests to
// skipPaths (exact match) or skipPrefixes pass through unauthenticated.
func NewAuthMiddleware(secret []byte, log *logger.Logger, skipPaths, skipPrefixes []string) *AuthMiddleware {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	skip := make(map[string]bool)
	for _, path := range skipPaths {
		skip[path] = true
	}

	return &AuthMiddleware{
		secret:       secret,
		logger:       log,
		skipPaths:    skip,
		skipPrefixes: skipPrefixes,
	}
}

// Handler returns the middleware handler.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skip(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.respondUnauthorized(w, r, "Missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.respondUnauthorized(w, r, "Invalid Authorization header format")
			return
		}

		claims, err := m.validateToken(parts[1])
		if err != nil {
			m.logger.WithError(err).Warn("Token validation failed")
			m.respondUnauthorized(w, r, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		if claims.Role != "" {
			ctx = context.WithValue(ctx, roleKey, claims.Role)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) skip(path string) bool {
	if m.skipPaths[path] {
		return true
	}
	for _, prefix := range m.skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (m *AuthMiddleware) validateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (m *AuthMiddleware) respondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})

	m.logger.WithFields(map[string]interface{}{
		"path":   r.URL.Path,
		"method": r.Method,
	}).Warn("Authentication failed")
}

// GetUserID extracts the authenticated user ID from context.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// GetUserRole extracts the authenticated user role from context.
func GetUserRole(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

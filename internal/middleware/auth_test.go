package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret []byte, userID, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func authHandler(secret []byte, skipPaths []string) http.Handler {
	mw := NewAuthMiddleware(secret, nil, skipPaths, nil)
	return mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-User-ID", GetUserID(r.Context()))
		w.Header().Set("X-Role", GetUserRole(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthSkipPathsPassThrough(t *testing.T) {
	handler := authHandler([]byte("secret"), []string{"/api/health"})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := authHandler([]byte("secret"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	handler := authHandler([]byte("secret"), nil)

	for _, header := range []string{"tok-only", "Basic dXNlcg==", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestAuthAcceptsValidTokenAndPopulatesContext(t *testing.T) {
	secret := []byte("secret")
	handler := authHandler(secret, nil)
	token := signToken(t, secret, "u1", "agent", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-User-ID") != "u1" || rec.Header().Get("X-Role") != "agent" {
		t.Fatalf("context user=%q role=%q", rec.Header().Get("X-User-ID"), rec.Header().Get("X-Role"))
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	secret := []byte("secret")
	handler := authHandler(secret, nil)
	token := signToken(t, secret, "u1", "agent", -time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsTokenSignedWithDifferentSecret(t *testing.T) {
	handler := authHandler([]byte("secret"), nil)
	token := signToken(t, []byte("other-secret"), "u1", "agent", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

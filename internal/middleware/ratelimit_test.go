package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rateLimitedHandler(rl *RateLimiter) http.Handler {
	return rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	handler := rateLimitedHandler(NewRateLimiter(1, 2, nil))

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("codes = %v, want burst of 2 allowed", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v, want third request limited", codes)
	}
}

func TestRateLimiterKeysClientsSeparately(t *testing.T) {
	handler := rateLimitedHandler(NewRateLimiter(1, 1, nil))

	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("addr %s: status = %d, want 200", addr, rec.Code)
		}
	}
}

func TestStopCleanupIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	rl.StartCleanup(time.Millisecond)

	rl.StopCleanup()
	rl.StopCleanup()
}

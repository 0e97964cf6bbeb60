package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// RateLimiter limits request rates per client.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	logger   *logger.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter allowing requestsPerSecond with
// the given burst per client key.
func NewRateLimiter(requestsPerSecond, burst int, log *logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.NewDefault("ratelimit")
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   log,
		stop:     make(chan struct{}),
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// Handler returns the rate limiting middleware handler. Authenticated
// requests are keyed by user ID, anonymous ones by remote address.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := GetUserID(r.Context())
		if key == "" {
			key = r.RemoteAddr
		}

		if !rl.getLimiter(key).Allow() {
			rl.logger.WithFields(map[string]interface{}{
				"key":  key,
				"path": r.URL.Path,
			}).Warn("Rate limit exceeded")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// StartCleanup periodically drops accumulated limiters so the map does
// not grow without bound. The sweep runs until StopCleanup is called.
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-rl.stop:
				return
			case <-ticker.C:
				rl.mu.Lock()
				if len(rl.limiters) > 10000 {
					rl.limiters = make(map[string]*rate.Limiter)
				}
				rl.mu.Unlock()
			}
		}
	}()
}

// StopCleanup halts the background sweep. Safe to call more than once.
func (rl *RateLimiter) StopCleanup() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

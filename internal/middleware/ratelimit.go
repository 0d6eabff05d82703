package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ai-gateway-api/internal/services"
)

// RateLimiter caps requests per user over a fixed one-minute window.
// A limit of zero or less disables limiting.
type RateLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	counts map[string]int
	reset  map[string]time.Time
}

func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: time.Minute,
		counts: make(map[string]int),
		reset:  make(map[string]time.Time),
	}
}

func (rl *RateLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		user, ok := services.UserFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}

		rl.mu.Lock()

		userID := user.ID.String()

		now := time.Now()
		if resetTime, exists := rl.reset[userID]; !exists || now.After(resetTime) {
			rl.reset[userID] = now.Add(rl.window)
			rl.counts[userID] = 0
		}

		if rl.counts[userID] >= rl.limit {
			resetAt := rl.reset[userID]
			rl.mu.Unlock()

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Rate limit exceeded"})
			return
		}

		rl.counts[userID]++
		remaining := rl.limit - rl.counts[userID]
		resetAt := rl.reset[userID]
		rl.mu.Unlock()

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleClientTTL を過ぎてアクセスのないクライアントは Cleanup で忘れる
const idleClientTTL = 10 * time.Minute

// RateLimiter はクライアントIPごとのトークンバケットを持つ
type RateLimiter struct {
	enabled bool
	limit   rate.Limit
	burst   int

	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter は1分あたり requestsPerMinute 件、最大 burst 件まで許すリミッターを作る
func NewRateLimiter(enabled bool, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		enabled: enabled,
		limit:   rate.Limit(float64(requestsPerMinute) / 60),
		burst:   max(burst, 1),
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

// Allow は key のリクエストを1件消費できれば true を返す
func (rl *RateLimiter) Allow(key string) bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Middleware は上限を超えたクライアントに 429 を返す
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if !rl.enabled {
		return next
	}
	retryAfter := "60"
	if rl.limit > 0 {
		retryAfter = strconv.Itoa(max(int(1/float64(rl.limit)), 1))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIPString(r)) {
			w.Header().Set("Retry-After", retryAfter)
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Cleanup はしばらくアクセスのないクライアントを削除する
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := rl.now().Add(-idleClientTTL)
	for key, c := range rl.clients {
		if c.lastSeen.Before(threshold) {
			delete(rl.clients, key)
		}
	}
}

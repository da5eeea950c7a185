package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iho/ledgerform/internal/infrastructure/metrics"
)

// RateLimiter implements per-IP rate limiting
type RateLimiter struct {
	limiters map[string]*visitor
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	metrics  *metrics.Metrics
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
// rate: requests per second
// burst: max burst size
func NewRateLimiter(r float64, b int, m *metrics.Metrics) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		rate:     rate.Limit(r),
		burst:    b,
		metrics:  m,
	}
}

// getLimiter returns a rate limiter for the given IP
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	now := time.Now()

	rl.mu.RLock()
	v, exists := rl.limiters[ip]
	rl.mu.RUnlock()

	if exists {
		rl.mu.Lock()
		v.lastSeen = now
		rl.mu.Unlock()
		return v.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	v, exists = rl.limiters[ip]
	if exists {
		v.lastSeen = now
		return v.limiter
	}

	v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst), lastSeen: now}
	rl.limiters[ip] = v

	return v.limiter
}

// Limit is a middleware that enforces rate limiting per IP
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)
		limiter := rl.getLimiter(ip)

		if !limiter.Allow() {
			if rl.metrics != nil {
				rl.metrics.RateLimitHits.WithLabelValues(ip).Inc()
			}
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getIP extracts the client IP from the request
func getIP(r *http.Request) string {
	// First hop of X-Forwarded-For is the client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// CleanupLimiters drops limiters idle for longer than maxIdle.
func (rl *RateLimiter) CleanupLimiters(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for ip, v := range rl.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(rl.limiters, ip)
		}
	}
}

// Size returns the number of tracked clients.
func (rl *RateLimiter) Size() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.limiters)
}

// Package ratelimit applies a per-client token bucket to HTTP requests.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/juju/ratelimit"

	"pharmacy/m/internal/metrics"
)

// Limiter manages one bucket per client address.
type Limiter struct {
	rate     float64
	capacity int64

	mu      sync.RWMutex
	clients map[string]*ratelimit.Bucket
}

// New creates a limiter refilling rate tokens per second up to capacity.
func New(rate float64, capacity int64) *Limiter {
	return &Limiter{
		rate:     rate,
		capacity: capacity,
		clients:  make(map[string]*ratelimit.Bucket),
	}
}

func (l *Limiter) bucket(client string) *ratelimit.Bucket {
	l.mu.RLock()
	b, ok := l.clients[client]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok = l.clients[client]; !ok {
		b = ratelimit.NewBucketWithRate(l.rate, l.capacity)
		l.clients[client] = b
		metrics.RateLimiterBucketsTotal.Set(float64(len(l.clients)))
	}
	return b
}

// Sweep drops buckets that have refilled completely.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for client, b := range l.clients {
		if b.Available() == b.Capacity() {
			delete(l.clients, client)
		}
	}
	metrics.RateLimiterBucketsTotal.Set(float64(len(l.clients)))
}

// RunCleanup sweeps every interval until ctx is done.
func (l *Limiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Cost returns the tokens a request consumes. Writes and PDF rendering cost
// more than plain reads; health and metrics probes are free.
func Cost(r *http.Request) int64 {
	switch {
	case r.URL.Path == "/health" || r.URL.Path == "/metrics":
		return 0
	case strings.HasPrefix(r.URL.Path, "/billing/receipt/"):
		return 50
	case r.Method == http.MethodGet || r.Method == http.MethodOptions:
		return 5
	default:
		return 20
	}
}

// Middleware rejects requests once the client's bucket cannot cover Cost.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := l.bucket(clientAddr(r))
		cost := Cost(r)

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(l.capacity, 10))
		w.Header().Set("X-RateLimit-Rate", strconv.FormatFloat(l.rate, 'f', -1, 64))

		if b.TakeAvailable(cost) < cost {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "60")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"Rate limit exceeded. Please try again later."}` + "\n"))
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(b.Available(), 10))
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

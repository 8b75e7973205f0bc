package httpx

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdle = 5 * time.Minute

type bucket struct {
	*rate.Limiter
	lastSeen time.Time
}

// ClientLimiter throttles each client address with its own token bucket.
// Downloads fan out to the upstream API, so clients are held back here first.
type ClientLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    rate.Limit
	burst   int
}

// NewClientLimiter allows every client rps requests per second after an
// initial burst.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		buckets: make(map[string]*bucket),
		rate:    rate.Limit(rps),
		burst:   burst,
	}
}

// Cleanup drops idle buckets until done is closed.
func (cl *ClientLimiter) Cleanup(done <-chan struct{}) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			cl.evict(now)
		}
	}
}

func (cl *ClientLimiter) evict(now time.Time) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for key, b := range cl.buckets {
		if now.Sub(b.lastSeen) > limiterIdle {
			delete(cl.buckets, key)
		}
	}
}

func (cl *ClientLimiter) bucketFor(key string, now time.Time) *bucket {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	b, ok := cl.buckets[key]
	if !ok {
		b = &bucket{Limiter: rate.NewLimiter(cl.rate, cl.burst)}
		cl.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

// Limit rejects requests over the client's budget with 429 and a
// Retry-After hint in whole seconds.
func (cl *ClientLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		res := cl.bucketFor(clientKey(r), now).ReserveN(now, 1)
		if !res.OK() {
			JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
			return
		}
		if wait := res.DelayFrom(now); wait > 0 {
			res.CancelAt(now)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the first X-Forwarded-For hop, else the remote host.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

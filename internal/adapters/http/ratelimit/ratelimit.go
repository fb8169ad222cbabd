// Package ratelimit throttles requests per client IP with one token bucket
// per address.
package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/tripboard/pkg/metrics"
)

const (
	idleTTL  = 30 * time.Minute
	sweepGap = 5 * time.Minute
)

type entry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// Limiter hands out per-IP token buckets. The zero value is not usable; use
// New.
type Limiter struct {
	mu        sync.Mutex
	entries   map[string]*entry
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// New allows perMinute requests per IP with the given burst. A non-positive
// perMinute returns a limiter that lets everything through.
func New(perMinute, burst int) *Limiter {
	if perMinute <= 0 {
		return &Limiter{limit: rate.Inf}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether ip may make another request now.
func (l *Limiter) Allow(ip string) bool {
	if l.limit == rate.Inf {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)
	e, ok := l.entries[ip]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastUse = now
	return e.limiter.AllowN(now, 1)
}

// RetryAfter is the number of seconds until one more request is allowed.
func (l *Limiter) RetryAfter() int {
	if l.limit <= 0 || l.limit == rate.Inf {
		return 60
	}
	s := int(math.Round(1 / float64(l.limit)))
	if s < 1 {
		return 1
	}
	return s
}

// Middleware throttles the requests for which counts returns true. A refused
// request gets a Retry-After header and is handed to reject.
func (l *Limiter) Middleware(counts func(*http.Request) bool, reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !counts(r) || l.Allow(ClientIP(r)) {
				next.ServeHTTP(w, r)
				return
			}
			metrics.RecordRateLimited()
			w.Header().Set("Retry-After", strconv.Itoa(l.RetryAfter()))
			reject(w, r)
		})
	}
}

// Writes reports whether r changes state, i.e. is a POST or PUT.
func Writes(r *http.Request) bool {
	return r.Method == http.MethodPost || r.Method == http.MethodPut
}

// sweep drops buckets idle for longer than idleTTL.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepGap {
		return
	}
	l.lastSweep = now
	for k, e := range l.entries {
		if now.Sub(e.lastUse) > idleTTL {
			delete(l.entries, k)
		}
	}
}

// ClientIP returns the caller's address. RemoteAddr is used unless a proxy
// in front has rewritten it (chi's RealIP middleware does that).
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

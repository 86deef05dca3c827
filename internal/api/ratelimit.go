package api

import (
	"net"
	"net/http"
	"path"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket: a sustained rate and a burst.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration // IPRateLimiter only
}

// DefaultRateLimitConfig covers one client driving both slots at 60 TPS
// while it polls the match.
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 120,
	Burst:             240,
	CleanupInterval:   5 * time.Minute,
}

// DefaultInputLimit bounds input submissions for one fighter slot. Four per
// tick at 60 TPS is more than any controller needs; the engine only keeps
// the latest input per slot anyway.
var DefaultInputLimit = RateLimitConfig{
	RequestsPerSecond: 240,
	Burst:             60,
}

// IPRateLimiter throttles HTTP requests per client address.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	config   RateLimitConfig
	stop     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter starts a limiter. Addresses idle for two cleanup
// intervals are forgotten.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultRateLimitConfig.CleanupInterval
	}
	rl := &IPRateLimiter{
		visitors: make(map[string]*visitor),
		config:   cfg,
		stop:     make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the cleanup goroutine.
func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow takes a token for ip.
func (rl *IPRateLimiter) Allow(ip string) bool {
	now := time.Now()
	rl.mu.Lock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Tracked returns the number of addresses with a live bucket.
func (rl *IPRateLimiter) Tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

func (rl *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.forget(now.Add(-2 * rl.config.CleanupInterval))
		}
	}
}

// forget drops buckets last used before cutoff.
func (rl *IPRateLimiter) forget(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// Middleware answers 429 once a client runs out of tokens.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			RecordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// InputLimiter throttles input submissions per fighter slot, whichever
// transport they arrive on. HTTP posts and websocket frames share it.
type InputLimiter struct {
	slots [2]*rate.Limiter
}

// NewInputLimiter gives each slot its own bucket.
func NewInputLimiter(cfg RateLimitConfig) *InputLimiter {
	il := &InputLimiter{}
	for i := range il.slots {
		il.slots[i] = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	return il
}

// Allow takes a token for slot. Unknown slots are let through for the
// engine to reject with ErrInvalidSlot.
func (il *InputLimiter) Allow(slot int) bool {
	if il == nil || slot < 0 || slot >= len(il.slots) {
		return true
	}
	return il.slots[slot].Allow()
}

// connLimiter counts open websocket connections per address.
type connLimiter struct {
	mu       sync.Mutex
	open     map[string]int
	maxPerIP int
}

func newConnLimiter(maxPerIP int) *connLimiter {
	return &connLimiter{open: make(map[string]int), maxPerIP: maxPerIP}
}

// acquire reserves a slot for ip.
func (cl *connLimiter) acquire(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.open[ip] >= cl.maxPerIP {
		return false
	}
	cl.open[ip]++
	return true
}

// release frees a slot taken by acquire.
func (cl *connLimiter) release(ip string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if n := cl.open[ip]; n > 1 {
		cl.open[ip] = n - 1
	} else {
		delete(cl.open, ip)
	}
}

func (cl *connLimiter) count(ip string) int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.open[ip]
}

// clientIP returns the host part of RemoteAddr. The router runs chi's
// RealIP middleware first, so proxy headers are already applied.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// OriginChecker validates WebSocket origins against the same patterns the
// CORS middleware uses ("http://localhost:*" style wildcards).
type OriginChecker struct {
	patterns []string
}

// NewOriginChecker creates a checker. Nil patterns fall back to localhost.
func NewOriginChecker(patterns []string) *OriginChecker {
	return &OriginChecker{patterns: corsOrigins(patterns)}
}

// Allowed reports whether origin matches a pattern. Requests without an
// Origin header come from non-browser clients and are allowed.
func (oc *OriginChecker) Allowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, p := range oc.patterns {
		if p == "*" || p == origin {
			return true
		}
		if ok, _ := path.Match(p, origin); ok {
			return true
		}
	}
	return false
}

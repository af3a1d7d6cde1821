package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"recruit-backend/internal/shared/server/respond"
)

// Throttle is a token bucket refilled at PerSecond up to Burst.
type Throttle struct {
	PerSecond float64
	Burst     int
}

func (t Throttle) disabled() bool {
	return t.PerSecond <= 0 || t.Burst <= 0
}

// RateLimitConfig maps route groups to throttles. GroupFor picks the group for
// a request; an empty group or one without a throttle is never limited.
type RateLimitConfig struct {
	Throttles map[string]Throttle
	GroupFor  func(*gin.Context) string
	Limiters  *Limiters
}

// limiterIdleTTL is how long a key may go unused before its limiter is
// dropped. Limiters that have not refilled yet are always kept.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiters holds one rate.Limiter per client and group. Idle, fully refilled
// limiters are pruned so the map does not grow with every client seen.
type Limiters struct {
	mu        sync.Mutex
	byKey     map[string]*limiterEntry
	lastPrune time.Time
	now       func() time.Time
}

// NewLimiters constructs Limiters. A nil clock uses time.Now.
func NewLimiters(now func() time.Time) *Limiters {
	if now == nil {
		now = time.Now
	}
	return &Limiters{byKey: make(map[string]*limiterEntry), lastPrune: now(), now: now}
}

// Len returns the number of tracked keys.
func (l *Limiters) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

// pruneLocked runs at most once per idle TTL. Callers hold l.mu.
func (l *Limiters) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < limiterIdleTTL {
		return
	}
	l.lastPrune = now
	for key, e := range l.byKey {
		if now.Sub(e.lastSeen) < limiterIdleTTL {
			continue
		}
		if e.lim.TokensAt(now) < float64(e.lim.Burst()) {
			continue
		}
		delete(l.byKey, key)
	}
}

// Reserve takes a token for key. When none is available it returns false and
// how long the caller should wait.
func (l *Limiters) Reserve(key string, t Throttle) (bool, time.Duration) {
	if t.disabled() {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	l.pruneLocked(now)
	e, ok := l.byKey[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Limit(t.PerSecond), t.Burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	lim := e.lim
	l.mu.Unlock()

	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	delay := res.DelayFrom(now)
	if delay <= 0 {
		return true, 0
	}
	res.CancelAt(now)
	return false, delay
}

// RateLimit throttles per client IP and group, answering 429 with Retry-After.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiters == nil {
		cfg.Limiters = NewLimiters(nil)
	}
	return func(c *gin.Context) {
		if cfg.GroupFor == nil {
			c.Next()
			return
		}
		group := cfg.GroupFor(c)
		throttle, ok := cfg.Throttles[group]
		if group == "" || !ok {
			c.Next()
			return
		}

		allowed, wait := cfg.Limiters.Reserve(c.ClientIP()+"|"+group, throttle)
		if allowed {
			c.Next()
			return
		}
		seconds := int(math.Ceil(wait.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many analysis requests",
			gin.H{"retryAfterMs": wait.Milliseconds()})
	}
}

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"

	"brainplan/internal/shared/metrics"
	"brainplan/internal/shared/server/respond"
)

const (
	defaultRateLimitGroup = "DEFAULT"

	// DefaultRateLimitKeys bounds the number of tracked session buckets.
	DefaultRateLimitKeys = 10000
)

// RateLimitRule is a token bucket refilled at Rate tokens per second.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimitConfig maps route groups to rules; requests are keyed by session.
// Groups without a rule are not limited.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter holds token buckets for the most recently seen keys. A key
// evicted from the cache starts over with a full bucket.
type RateLimiter struct {
	mu      sync.Mutex
	buckets *lru.Cache[string, *rateBucket]
	now     func() time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter returns a limiter tracking up to DefaultRateLimitKeys keys.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	return newRateLimiter(DefaultRateLimitKeys, now)
}

func newRateLimiter(size int, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	cache, err := lru.New[string, *rateBucket](size)
	if err != nil {
		// only reachable with a non-positive size
		cache, _ = lru.New[string, *rateBucket](DefaultRateLimitKeys)
	}
	return &RateLimiter{buckets: cache, now: now}
}

// RateLimit throttles requests per session and route group, answering 429
// with Retry-After once a bucket is empty.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}

		principal := strings.TrimSpace(SessionIDFromContext(c))
		if principal == "" {
			principal = c.ClientIP()
		}
		allowed, retryAfter := cfg.Limiter.Allow(principal+"|"+group, rule)
		if allowed {
			c.Next()
			return
		}

		metrics.IncRateLimited(group)
		retryAfterMs := retryAfter.Milliseconds()
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		c.Header("Retry-After", strconv.FormatInt(int64(math.Ceil(float64(retryAfterMs)/1000)), 10))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many submissions, try again shortly", map[string]any{
			"retryAfterMs": retryAfterMs,
		})
	}
}

// Allow takes one token from key's bucket. When the bucket is empty it
// reports how long until the next token is available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets.Get(key)
	if !ok {
		bucket = &rateBucket{tokens: float64(rule.Burst), last: now}
		l.buckets.Add(key, bucket)
	}
	if elapsed := now.Sub(bucket.last).Seconds(); elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens--
		return true, 0
	}
	wait := (1 - bucket.tokens) / rule.Rate
	return false, time.Duration(math.Ceil(wait*1000)) * time.Millisecond
}

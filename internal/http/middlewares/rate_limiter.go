package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type bucket struct {
	tokens   int
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket. Buckets idle for longer than an
// hour are evicted opportunistically so the map cannot grow unbounded.
type RateLimiter struct {
	mu      sync.Mutex
	rate    int
	burst   int
	buckets map[string]*bucket
	sweepAt time.Time
}

func NewRateLimiter(rate, burst int) *RateLimiter {
	return &RateLimiter{
		rate:    rate,
		burst:   burst,
		buckets: make(map[string]*bucket),
		sweepAt: time.Now().Add(time.Hour),
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		now := time.Now()

		if now.After(rl.sweepAt) {
			for k, b := range rl.buckets {
				if now.Sub(b.lastSeen) > time.Hour {
					delete(rl.buckets, k)
				}
			}
			rl.sweepAt = now.Add(time.Hour)
		}

		b, ok := rl.buckets[ip]
		if !ok {
			b = &bucket{tokens: rl.burst, lastSeen: now}
			rl.buckets[ip] = b
		}

		b.tokens += int(now.Sub(b.lastSeen).Seconds()) * rl.rate
		if b.tokens > rl.burst {
			b.tokens = rl.burst
		}
		b.lastSeen = now

		if b.tokens <= 0 {
			rl.mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		b.tokens--
		rl.mu.Unlock()

		c.Next()
	}
}

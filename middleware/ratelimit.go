package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter *rate.Limiter
	mu      sync.Mutex
	last    time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	ips   sync.Map // map[string]*ipLimiter
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{limit: limit, burst: burst, idle: 30 * time.Minute}
}

func (l *IPRateLimiter) allow(ip string) bool {
	v, _ := l.ips.LoadOrStore(ip, &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)})
	il := v.(*ipLimiter)
	il.mu.Lock()
	il.last = time.Now()
	il.mu.Unlock()
	return il.limiter.Allow()
}

// Cleanup drops limiters idle for longer than 30 minutes until ctx is done.
func (l *IPRateLimiter) Cleanup(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			l.ips.Range(func(key, val any) bool {
				il := val.(*ipLimiter)
				il.mu.Lock()
				stale := now.Sub(il.last) > l.idle
				il.mu.Unlock()
				if stale {
					l.ips.Delete(key)
				}
				return true
			})
		}
	}
}

// RateLimit answers 429 once a client IP exhausts its bucket.
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Demasiadas solicitudes, intenta más tarde"})
			c.Abort()
			return
		}
		c.Next()
	}
}

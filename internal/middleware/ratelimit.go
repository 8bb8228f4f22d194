// Package middleware contains Gin middleware functions. Middleware runs
// before (or after) the route handler; it calls c.Next() to proceed or
// c.Abort() to stop the chain.
package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit returns per-client rate limiting middleware using token
// buckets, keyed by client IP since the API is unauthenticated.
//
// Token bucket: each client gets a bucket that fills at `rps` tokens/sec
// up to `burst` tokens. Each request consumes one token; an empty bucket
// means 429. The sync.Mutex protects the limiter map from concurrent
// goroutine access.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		mu.Lock()
		limiter, exists := limiters[clientIP]
		if !exists {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[clientIP] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

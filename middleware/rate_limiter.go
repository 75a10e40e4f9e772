package middleware

import (
	"net/http"
	"sync"
	"time"

	"carenow/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultRequestsPerMin = 100

// ipLimiters lazily tracks one token bucket per client IP. Entries are never
// evicted; the set of distinct client IPs is small enough in practice.
var ipLimiters sync.Map

func limiterFor(ip string) *rate.Limiter {
	if l, ok := ipLimiters.Load(ip); ok {
		return l.(*rate.Limiter)
	}

	perMin := config.AppConfig.MaxRequestsPerMin
	if perMin <= 0 {
		perMin = defaultRequestsPerMin
	}
	l, _ := ipLimiters.LoadOrStore(ip, rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin))
	return l.(*rate.Limiter)
}

// RateLimitMiddleware rejects requests exceeding the per-IP budget with 429.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !limiterFor(ip).Allow() {
			zap.L().Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"homely/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiters holds one token bucket per caller IP. Buckets are created lazily
// and never evicted; the key space is bounded by the proxy in front.
var limiters = struct {
	sync.Mutex
	byIP map[string]*rate.Limiter
}{byIP: make(map[string]*rate.Limiter)}

func limiterFor(ip string) *rate.Limiter {
	limiters.Lock()
	defer limiters.Unlock()

	limiter, ok := limiters.byIP[ip]
	if !ok {
		perMin := config.AppConfig.MaxRequestsPerMin
		if perMin <= 0 {
			perMin = 100
		}
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin)
		limiters.byIP[ip] = limiter
	}
	return limiter
}

// clientIP resolves the caller's address, trusting the proxy headers before
// falling back to the socket peer.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		// First hop in the comma-separated chain is the original client.
		if first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0]); first != "" {
			return first
		}
	}
	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// RateLimitMiddleware rejects callers that exceed the configured per-minute
// request rate, keyed by IP.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := clientIP(c)
		if !limiterFor(ip).Allow() {
			zap.L().Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

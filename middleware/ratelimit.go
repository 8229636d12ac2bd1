package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type bucket struct {
	tokens     int
	lastRefill time.Time
}

const (
	defaultWindow   = 10 * time.Second
	defaultCapacity = 5
)

var (
	rlMu        sync.Mutex
	buckets     = map[string]*bucket{}
	window      = defaultWindow
	capacity    = defaultCapacity
	refillPerWd = capacity
)

// SetRateLimitConfig replaces the limits and forgets existing buckets.
// Non-positive values fall back to the defaults.
func SetRateLimitConfig(win time.Duration, cap int) {
	if win <= 0 {
		logrus.Warnf("[ratelimit] invalid window %v, using %v", win, defaultWindow)
		win = defaultWindow
	}
	if cap <= 0 {
		logrus.Warnf("[ratelimit] invalid capacity %d, using %d", cap, defaultCapacity)
		cap = defaultCapacity
	}
	rlMu.Lock()
	window = win
	capacity = cap
	refillPerWd = cap
	buckets = map[string]*bucket{}
	rlMu.Unlock()
}

func clientIP(c *gin.Context) string {
	ip := strings.TrimSpace(c.ClientIP())
	if ip == "" {
		host, _, _ := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
		ip = host
	}
	return ip
}

// RateLimit is a per-IP token bucket for the unauthenticated auth endpoints.
func RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := clientIP(c)
		now := time.Now()

		rlMu.Lock()
		b := buckets[key]
		if b == nil {
			b = &bucket{tokens: capacity, lastRefill: now}
			buckets[key] = b
		}
		elapsed := now.Sub(b.lastRefill)
		if elapsed > 0 {
			add := int(float64(refillPerWd) * (float64(elapsed) / float64(window)))
			if add > 0 {
				b.tokens += add
				if b.tokens > capacity {
					b.tokens = capacity
				}
				b.lastRefill = now
			}
		}
		if b.tokens <= 0 {
			retry := window
			rlMu.Unlock()
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"msg": "too many requests"})
			return
		}
		b.tokens--
		rlMu.Unlock()

		c.Next()
	}
}

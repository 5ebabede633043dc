package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"partsdesk/internal/apierror"
)

// ipLimiter counts requests per client IP over a fixed window. One instance
// guards one route group; windows reset lazily on the next hit and idle IPs
// are dropped on a timer so the map stays bounded.
type ipLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string]*ipWindow
	deny   string
}

type ipWindow struct {
	count int
	until time.Time
}

func newIPLimiter(limit int, window time.Duration, deny string) *ipLimiter {
	l := &ipLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string]*ipWindow),
		deny:   deny,
	}
	go l.purgeLoop()
	return l
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.hits[ip]
	if !ok || now.After(w.until) {
		w = &ipWindow{until: now.Add(l.window)}
		l.hits[ip] = w
	}
	w.count++
	return w.count <= l.limit
}

func (l *ipLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.deny))
			return
		}
		c.Next()
	}
}

const limiterPurgeInterval = 5 * time.Minute

func (l *ipLimiter) purgeLoop() {
	ticker := time.NewTicker(limiterPurgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		dropped := 0
		for ip, w := range l.hits {
			if now.After(w.until) {
				delete(l.hits, ip)
				dropped++
			}
		}
		remaining := len(l.hits)
		l.mu.Unlock()

		if dropped > 0 {
			log.Debug().
				Int("dropped", dropped).
				Int("tracked_ips", remaining).
				Msg("rate limiter purged expired windows")
		}
	}
}

var loginLimiter = newIPLimiter(10, time.Minute,
	"Too many login attempts. Try again in a minute.")

// LoginRateLimiter guards the credential endpoints: 10 attempts per minute
// per IP. One shared instance covers /login and /register.
func LoginRateLimiter() gin.HandlerFunc {
	return loginLimiter.handler()
}

// RateLimiter caps overall request volume per client IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newIPLimiter(limit, window, "Too many requests. Try again shortly.").handler()
}

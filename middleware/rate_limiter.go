// middleware/rate_limiter.go
package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             *sync.RWMutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:            make(map[string]*rate.Limiter),
		blockedIPs:     make(map[string]time.Time),
		mu:             &sync.RWMutex{},
		defaultLimit:   rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:   20,
		blockDuration:  5 * time.Minute,
		endpointLimits: make(map[string]endpointLimit),
	}

	// Strict limits on credential endpoints to slow brute force.
	limiter.endpointLimits["/api/auth/login"] = endpointLimit{
		limit: rate.Every(2 * time.Second),
		burst: 5,
	}
	limiter.endpointLimits["/api/auth/signup"] = endpointLimit{
		limit: rate.Every(500 * time.Millisecond),
		burst: 5,
	}

	go limiter.cleanup()
	return limiter
}

// cleanup drops expired blocks and idle limiters.
func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		now := time.Now()
		for ip, until := range rl.blockedIPs {
			if now.After(until) {
				delete(rl.blockedIPs, ip)
			}
		}
		rl.ips = make(map[string]*rate.Limiter)
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) limiterFor(ip, path string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := ip + path
	if limiter, ok := rl.ips[key]; ok {
		return limiter
	}

	limit := rl.defaultLimit
	burst := rl.defaultBurst
	for prefix, el := range rl.endpointLimits {
		if strings.HasPrefix(path, prefix) {
			limit = el.limit
			burst = el.burst
			break
		}
	}

	limiter := rate.NewLimiter(limit, burst)
	rl.ips[key] = limiter
	return limiter
}

// RateLimit returns the middleware enforcing the per-IP limits.
func (rl *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			rl.mu.RLock()
			blockedUntil, blocked := rl.blockedIPs[ip]
			rl.mu.RUnlock()

			if blocked && time.Now().Before(blockedUntil) {
				return echo.NewHTTPError(429, "Too many requests, try again later")
			}

			limiter := rl.limiterFor(ip, c.Request().URL.Path)
			if !limiter.Allow() {
				rl.mu.Lock()
				rl.blockedIPs[ip] = time.Now().Add(rl.blockDuration)
				rl.mu.Unlock()
				return echo.NewHTTPError(429, "Too many requests, try again later")
			}

			return next(c)
		}
	}
}

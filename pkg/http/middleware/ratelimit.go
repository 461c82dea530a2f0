package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Allower decides whether a request for key may proceed.
type Allower interface {
	Allow(key string) bool
}

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	Limiter Allower
	// KeyHeader identifies the client (e.g. X-API-Key). It is only honoured
	// when TrustKeyHeader is set, i.e. a gateway in front has already
	// authenticated the value. Otherwise requests are keyed by client IP.
	KeyHeader      string
	TrustKeyHeader bool
	RetryAfter     int // seconds
	OnReject       func(c echo.Context, key string)
}

// RateLimit rejects requests over budget with 429 and Retry-After.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.RetryAfter <= 0 {
		cfg.RetryAfter = 1
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := ""
			if cfg.TrustKeyHeader {
				header = cfg.KeyHeader
			}
			key := clientKey(c, header)
			if cfg.Limiter.Allow(key) {
				return next(c)
			}
			if cfg.OnReject != nil {
				cfg.OnReject(c, key)
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(cfg.RetryAfter))
			return c.JSON(http.StatusTooManyRequests, []string{"rate limit exceeded"})
		}
	}
}

func clientKey(c echo.Context, header string) string {
	if header != "" {
		if v := strings.TrimSpace(c.Request().Header.Get(header)); v != "" {
			return v
		}
	}
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "unknown"
}

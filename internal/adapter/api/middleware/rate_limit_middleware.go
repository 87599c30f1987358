package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/logger"
	"gamecodeshop/pkg/response"
)

// Limiter is satisfied by ratelimit.RateLimiter.
type Limiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// RateLimitByIP limits unauthenticated endpoints per client IP.
func RateLimitByIP(limiter Limiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			allowed, retryAfter := limiter.Allow("ip:"+ip, action)
			if !allowed {
				logger.Warn("rate limit: blocked %s from %s (retry in %v)", action, ip, retryAfter)
				seconds := int(math.Ceil(retryAfter.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return response.Error(c, errors.TooManyRequests("คุณส่งคำขอบ่อยเกินไป กรุณารอสักครู่"))
			}
			return next(c)
		}
	}
}

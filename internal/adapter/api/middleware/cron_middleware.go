package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"

	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/logger"
	"gamecodeshop/pkg/response"
)

const CronSecretHeader = "X-Cron-Secret"

// CronSecret guards scheduler endpoints. An empty secret rejects every call.
func CronSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(CronSecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				logger.Warn("cron: rejected call to %s from %s", c.Path(), c.RealIP())
				return response.Error(c, errors.Unauthorized("cron secret ไม่ถูกต้อง", nil))
			}
			return next(c)
		}
	}
}

package router

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/adapter/api/middleware"
)

type Options struct {
	CronSecret string
	Limiter    middleware.Limiter
}

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, opts Options) {
	SetupDisputeRouter(e, authMiddleware, adminMiddleware)
	SetupOrderRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupBankAccountRouter(e, authMiddleware)
	SetupPaymentRouter(e, opts.Limiter)
	SetupCronRouter(e, opts.CronSecret)
	SetupHealthRouter(e)
}

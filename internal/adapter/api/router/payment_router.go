package router

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/adapter/api/handler"
	"gamecodeshop/internal/adapter/api/middleware"
	"gamecodeshop/internal/infrastructure/ratelimit"
)

func SetupPaymentRouter(e *echo.Echo, limiter middleware.Limiter) {
	paymentHandler := handler.GetPaymentHandler()

	payments := e.Group("/v1/payments")
	if limiter != nil {
		payments.Use(middleware.RateLimitByIP(limiter, ratelimit.ActionPaymentQuote))
	}
	payments.POST("/quote", paymentHandler.Quote)
}

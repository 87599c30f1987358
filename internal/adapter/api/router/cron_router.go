package router

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/adapter/api/handler"
	"gamecodeshop/internal/adapter/api/middleware"
)

func SetupCronRouter(e *echo.Echo, cronSecret string) {
	cronHandler := handler.GetCronHandler()

	cron := e.Group("/v1/cron")
	cron.Use(middleware.CronSecret(cronSecret))
	cron.POST("/auto-confirm", cronHandler.RunAutoConfirm)
}

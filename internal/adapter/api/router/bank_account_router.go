package router

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/adapter/api/handler"
	"gamecodeshop/internal/adapter/api/middleware"
)

// Ownership of the shop is checked by the use cases.
func SetupBankAccountRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	bankHandler := handler.GetBankAccountHandler()

	accounts := e.Group("/v1/shops/:shopId/bank-accounts/:accountId")
	accounts.Use(authMiddleware.Authenticate)

	accounts.POST("/verify", bankHandler.VerifyAccount)
	accounts.POST("/micro-deposits", bankHandler.StartMicroDeposits)
	accounts.PUT("/enabled", bankHandler.SetEnabled)
	accounts.PUT("/default", bankHandler.SetDefault)

	verifications := e.Group("/v1/bank-verifications")
	verifications.Use(authMiddleware.Authenticate)
	verifications.POST("/:id/confirm", bankHandler.ConfirmMicroDeposits)
}

package router

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/adapter/api/handler"
	"gamecodeshop/internal/adapter/api/middleware"
)

func SetupDisputeRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	disputeHandler := handler.GetDisputeHandler()

	disputes := e.Group("/v1/disputes")
	disputes.Use(authMiddleware.Authenticate)

	disputes.POST("", disputeHandler.CreateDispute)
	if evidenceHandler := handler.GetEvidenceHandler(); evidenceHandler != nil {
		disputes.POST("/evidence", evidenceHandler.UploadEvidence)
	}
	disputes.GET("/mine", disputeHandler.ListMyDisputes)
	disputes.GET("/seller", disputeHandler.ListSellerDisputes)
	disputes.GET("/:id", disputeHandler.GetDispute)
	disputes.POST("/:id/seller-resolve", disputeHandler.ResolveBySeller)

	admin := e.Group("/v1/admin/disputes")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("", disputeHandler.ListAllDisputes)
	admin.PUT("/:id/investigate", disputeHandler.MarkInvestigating)
	admin.POST("/:id/resolve", disputeHandler.ResolveByAdmin)
}

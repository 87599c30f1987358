package router

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/adapter/api/handler"
	"gamecodeshop/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	orderHandler := handler.GetOrderHandler()
	chatHandler := handler.GetOrderChatHandler()

	orders := e.Group("/v1/orders")
	orders.Use(authMiddleware.Authenticate)

	orders.POST("/:id/confirm", orderHandler.ConfirmReceipt)
	orders.GET("/:id/auto-confirm", orderHandler.GetAutoConfirmRemainingDays)

	orders.POST("/:id/messages", chatHandler.SendMessage)
	orders.GET("/:id/messages", chatHandler.GetMessages)
	orders.PUT("/:id/messages/read", chatHandler.MarkAsRead)

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)
	chats.GET("/unread", chatHandler.GetUnreadCount)
}

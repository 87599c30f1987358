package handler

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/response"
)

type OrderChatHandler struct {
	chatUseCase OrderChatService
}

func NewOrderChatHandler(chatUseCase OrderChatService) *OrderChatHandler {
	return &OrderChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendOrderMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *OrderChatHandler) SendMessage(c echo.Context) error {
	var req sendOrderMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("ข้อมูลไม่ถูกต้อง", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendOrderMessage(c.Request().Context(), c.Param("id"), currentUser(c), req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *OrderChatHandler) GetMessages(c echo.Context) error {
	messages, err := h.chatUseCase.GetOrderMessages(c.Request().Context(), c.Param("id"), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *OrderChatHandler) MarkAsRead(c echo.Context) error {
	if err := h.chatUseCase.MarkMessagesAsRead(c.Request().Context(), c.Param("id"), currentUser(c)); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"read": true})
}

func (h *OrderChatHandler) GetUnreadCount(c echo.Context) error {
	role := entity.ChatRole(c.QueryParam("role"))
	if role == "" {
		role = entity.ChatRoleBuyer
	}

	count, err := h.chatUseCase.GetUnreadMessageCount(c.Request().Context(), currentUser(c), role)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"role":  role,
		"count": count,
	})
}

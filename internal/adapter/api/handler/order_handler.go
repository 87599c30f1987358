package handler

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/response"
)

type OrderHandler struct {
	orderUseCase OrderService
}

func NewOrderHandler(orderUseCase OrderService) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

func (h *OrderHandler) ConfirmReceipt(c echo.Context) error {
	orderID := c.Param("id")
	if orderID == "" {
		return response.Error(c, errors.BadRequest("Order ID is required", nil))
	}

	order, err := h.orderUseCase.ConfirmReceipt(c.Request().Context(), currentUser(c), orderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

// GetAutoConfirmRemainingDays answers {"remaining_days": n}, or null once the
// order is confirmed or still undelivered.
func (h *OrderHandler) GetAutoConfirmRemainingDays(c echo.Context) error {
	days, err := h.orderUseCase.GetAutoConfirmRemainingDays(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]*int{"remaining_days": days})
}

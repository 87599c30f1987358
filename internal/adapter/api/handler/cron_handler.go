package handler

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/pkg/response"
)

type CronHandler struct {
	orderUseCase OrderService
}

func NewCronHandler(orderUseCase OrderService) *CronHandler {
	return &CronHandler{orderUseCase: orderUseCase}
}

// RunAutoConfirm is called by the external scheduler. Per-order failures are
// reported inside the result, not as an error status.
func (h *CronHandler) RunAutoConfirm(c echo.Context) error {
	result, err := h.orderUseCase.RunAutoConfirm(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

package handler

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/domain/service"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/response"
)

type PaymentHandler struct{}

func NewPaymentHandler() *PaymentHandler {
	return &PaymentHandler{}
}

type paymentQuoteRequest struct {
	Amount float64               `json:"amount" validate:"required,gt=0"`
	Method service.PaymentMethod `json:"method" validate:"required,oneof=promptpay credit_card stripe"`
}

// Quote shows the buyer total and the seller's share before checkout.
func (h *PaymentHandler) Quote(c echo.Context) error {
	var req paymentQuoteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("ข้อมูลไม่ถูกต้อง", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, service.CalculateFinalPaymentAmount(req.Amount, req.Method))
}

package handler

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/usecase"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/response"
)

type BankAccountHandler struct {
	verificationUseCase BankVerificationService
	accountUseCase      BankAccountService
}

func NewBankAccountHandler(verificationUseCase BankVerificationService, accountUseCase BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{
		verificationUseCase: verificationUseCase,
		accountUseCase:      accountUseCase,
	}
}

type confirmMicroDepositsRequest struct {
	Amounts []int64 `json:"amounts" validate:"required,len=2,dive,min=1,max=99"`
}

type setEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// VerifyAccount takes the payee details in the body; a failed test transfer still
// answers 200 with verified=false.
func (h *BankAccountHandler) VerifyAccount(c echo.Context) error {
	var req usecase.BankAccountInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("ข้อมูลไม่ถูกต้อง", err))
	}

	result, err := h.verificationUseCase.VerifyBankAccount(
		c.Request().Context(),
		currentUser(c),
		c.Param("shopId"),
		c.Param("accountId"),
		req,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *BankAccountHandler) StartMicroDeposits(c echo.Context) error {
	challenge, err := h.verificationUseCase.StartMicroDeposit(
		c.Request().Context(),
		currentUser(c),
		c.Param("shopId"),
		c.Param("accountId"),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, challenge)
}

func (h *BankAccountHandler) ConfirmMicroDeposits(c echo.Context) error {
	var req confirmMicroDepositsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("ข้อมูลไม่ถูกต้อง", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.verificationUseCase.ConfirmMicroDeposits(c.Request().Context(), currentUser(c), c.Param("id"), req.Amounts)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *BankAccountHandler) SetEnabled(c echo.Context) error {
	var req setEnabledRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("ข้อมูลไม่ถูกต้อง", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	shop, err := h.accountUseCase.SetAccountEnabled(
		c.Request().Context(),
		currentUser(c),
		c.Param("shopId"),
		c.Param("accountId"),
		*req.Enabled,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, shop.BankAccounts)
}

func (h *BankAccountHandler) SetDefault(c echo.Context) error {
	shop, err := h.accountUseCase.SetDefaultAccount(c.Request().Context(), currentUser(c), c.Param("shopId"), c.Param("accountId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, shop.BankAccounts)
}

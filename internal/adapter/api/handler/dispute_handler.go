package handler

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/usecase"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/response"
	"gamecodeshop/pkg/utils"
)

type DisputeHandler struct {
	disputeUseCase DisputeService
}

func NewDisputeHandler(disputeUseCase DisputeService) *DisputeHandler {
	return &DisputeHandler{
		disputeUseCase: disputeUseCase,
	}
}

func (h *DisputeHandler) CreateDispute(c echo.Context) error {
	var req usecase.CreateDisputeInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("ข้อมูลไม่ถูกต้อง", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	dispute, err := h.disputeUseCase.CreateDispute(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, dispute)
}

func (h *DisputeHandler) GetDispute(c echo.Context) error {
	disputeID := c.Param("id")
	if disputeID == "" {
		return response.Error(c, errors.BadRequest("Dispute ID is required", nil))
	}

	dispute, err := h.disputeUseCase.GetDispute(c.Request().Context(), currentUser(c), disputeID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, dispute)
}

func (h *DisputeHandler) ListMyDisputes(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	disputes, total, err := h.disputeUseCase.ListBuyerDisputes(c.Request().Context(), currentUser(c), params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, disputes, total, params.Page, params.PageSize)
}

func (h *DisputeHandler) ListSellerDisputes(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	disputes, total, err := h.disputeUseCase.ListSellerDisputes(c.Request().Context(), currentUser(c), params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, disputes, total, params.Page, params.PageSize)
}

func (h *DisputeHandler) ResolveBySeller(c echo.Context) error {
	var req usecase.SellerResolveInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("ข้อมูลไม่ถูกต้อง", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.disputeUseCase.ResolveBySeller(c.Request().Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

// Admin

func (h *DisputeHandler) ListAllDisputes(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	status := entity.DisputeStatus(c.QueryParam("status"))

	disputes, total, err := h.disputeUseCase.ListDisputes(c.Request().Context(), currentUser(c), status, params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, disputes, total, params.Page, params.PageSize)
}

func (h *DisputeHandler) MarkInvestigating(c echo.Context) error {
	dispute, err := h.disputeUseCase.MarkInvestigating(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, dispute)
}

func (h *DisputeHandler) ResolveByAdmin(c echo.Context) error {
	var req usecase.AdminResolveInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("ข้อมูลไม่ถูกต้อง", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	dispute, err := h.disputeUseCase.ResolveByAdmin(c.Request().Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, dispute)
}

package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/usecase"
	"gamecodeshop/pkg/errors"
)

func TestCreateDispute(t *testing.T) {
	svc := new(mockDisputeService)
	h := NewDisputeHandler(svc)

	in := usecase.CreateDisputeInput{
		OrderID: "order-1",
		Type:    entity.DisputeTypeCodeNotWorking,
		Subject: "โค้ดใช้ไม่ได้",
	}
	svc.On("CreateDispute", mock.Anything, "buyer-1", in).
		Return(&entity.Dispute{ID: "d-1", OrderID: "order-1", Status: entity.DisputeStatusPending}, nil)

	c, rec := newContext(http.MethodPost, "/v1/disputes",
		`{"order_id":"order-1","type":"code_not_working","subject":"โค้ดใช้ไม่ได้"}`, "buyer-1")

	require.NoError(t, h.CreateDispute(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	env := decode(t, rec)
	assert.True(t, env.Success)
	var dispute entity.Dispute
	require.NoError(t, json.Unmarshal(env.Data, &dispute))
	assert.Equal(t, "d-1", dispute.ID)
	svc.AssertExpectations(t)
}

func TestCreateDisputeRejectsUnknownType(t *testing.T) {
	svc := new(mockDisputeService)
	h := NewDisputeHandler(svc)

	c, rec := newContext(http.MethodPost, "/v1/disputes",
		`{"order_id":"order-1","type":"angry","subject":"x"}`, "buyer-1")

	require.NoError(t, h.CreateDispute(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec).Error.Code)
	svc.AssertNotCalled(t, "CreateDispute", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDisputeConflict(t *testing.T) {
	svc := new(mockDisputeService)
	h := NewDisputeHandler(svc)

	svc.On("CreateDispute", mock.Anything, "buyer-1", mock.Anything).
		Return(nil, errors.Conflict("คำสั่งซื้อนี้มีการรายงานปัญหาอยู่แล้ว", nil))

	c, rec := newContext(http.MethodPost, "/v1/disputes",
		`{"order_id":"order-1","type":"other","subject":"x"}`, "buyer-1")

	require.NoError(t, h.CreateDispute(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "คำสั่งซื้อนี้มีการรายงานปัญหาอยู่แล้ว", env.Error.Message)
}

func TestListMyDisputesPaginates(t *testing.T) {
	svc := new(mockDisputeService)
	h := NewDisputeHandler(svc)

	svc.On("ListBuyerDisputes", mock.Anything, "buyer-1", 2, 5).
		Return([]*entity.Dispute{{ID: "d-6"}}, int64(6), nil)

	c, rec := newContext(http.MethodGet, "/v1/disputes/mine?page=2&limit=5", "", "buyer-1")

	require.NoError(t, h.ListMyDisputes(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		TotalPages int   `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListAllDisputesPassesStatus(t *testing.T) {
	svc := new(mockDisputeService)
	h := NewDisputeHandler(svc)

	svc.On("ListDisputes", mock.Anything, "admin-1", entity.DisputeStatusInvestigating, 1, 20).
		Return([]*entity.Dispute{}, int64(0), nil)

	c, rec := newContext(http.MethodGet, "/v1/admin/disputes?status=investigating", "", "admin-1")

	require.NoError(t, h.ListAllDisputes(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestResolveBySellerReturnsOutcome(t *testing.T) {
	svc := new(mockDisputeService)
	h := NewDisputeHandler(svc)

	svc.On("ResolveBySeller", mock.Anything, "seller-1", "d-1", usecase.SellerResolveInput{Action: usecase.SellerActionRefund}).
		Return(&usecase.SellerResolution{
			Dispute:        &entity.Dispute{ID: "d-1", RefundFailed: true},
			RefundOutcome:  usecase.RefundNeedsFollowUp,
			FollowUpReason: "card_declined",
		}, nil)

	c, rec := newContext(http.MethodPost, "/v1/disputes/d-1/seller-resolve", `{"action":"refund"}`, "seller-1")
	c.SetParamNames("id")
	c.SetParamValues("d-1")

	require.NoError(t, h.ResolveBySeller(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		RefundOutcome string `json:"refund_outcome"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.Equal(t, "needs_follow_up", result.RefundOutcome)
}

func TestResolveByAdminRequiresResolution(t *testing.T) {
	svc := new(mockDisputeService)
	h := NewDisputeHandler(svc)

	c, rec := newContext(http.MethodPost, "/v1/admin/disputes/d-1/resolve", `{"response":"ok"}`, "admin-1")
	c.SetParamNames("id")
	c.SetParamValues("d-1")

	require.NoError(t, h.ResolveByAdmin(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ResolveByAdmin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

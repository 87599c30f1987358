package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gamecodeshop/internal/adapter/api"
	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/usecase"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newContext builds an echo context for a JSON request made by uid.
func newContext(method, target, body, uid string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = api.NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set("uid", uid)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type mockDisputeService struct {
	mock.Mock
}

func (m *mockDisputeService) CreateDispute(ctx context.Context, userID string, in usecase.CreateDisputeInput) (*entity.Dispute, error) {
	args := m.Called(ctx, userID, in)
	d, _ := args.Get(0).(*entity.Dispute)
	return d, args.Error(1)
}

func (m *mockDisputeService) GetDispute(ctx context.Context, userID, disputeID string) (*entity.Dispute, error) {
	args := m.Called(ctx, userID, disputeID)
	d, _ := args.Get(0).(*entity.Dispute)
	return d, args.Error(1)
}

func (m *mockDisputeService) ListBuyerDisputes(ctx context.Context, userID string, page, pageSize int) ([]*entity.Dispute, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	d, _ := args.Get(0).([]*entity.Dispute)
	return d, args.Get(1).(int64), args.Error(2)
}

func (m *mockDisputeService) ListSellerDisputes(ctx context.Context, sellerID string, page, pageSize int) ([]*entity.Dispute, int64, error) {
	args := m.Called(ctx, sellerID, page, pageSize)
	d, _ := args.Get(0).([]*entity.Dispute)
	return d, args.Get(1).(int64), args.Error(2)
}

func (m *mockDisputeService) ListDisputes(ctx context.Context, adminID string, status entity.DisputeStatus, page, pageSize int) ([]*entity.Dispute, int64, error) {
	args := m.Called(ctx, adminID, status, page, pageSize)
	d, _ := args.Get(0).([]*entity.Dispute)
	return d, args.Get(1).(int64), args.Error(2)
}

func (m *mockDisputeService) MarkInvestigating(ctx context.Context, adminID, disputeID string) (*entity.Dispute, error) {
	args := m.Called(ctx, adminID, disputeID)
	d, _ := args.Get(0).(*entity.Dispute)
	return d, args.Error(1)
}

func (m *mockDisputeService) ResolveByAdmin(ctx context.Context, adminID, disputeID string, in usecase.AdminResolveInput) (*entity.Dispute, error) {
	args := m.Called(ctx, adminID, disputeID, in)
	d, _ := args.Get(0).(*entity.Dispute)
	return d, args.Error(1)
}

func (m *mockDisputeService) ResolveBySeller(ctx context.Context, sellerID, disputeID string, in usecase.SellerResolveInput) (*usecase.SellerResolution, error) {
	args := m.Called(ctx, sellerID, disputeID, in)
	r, _ := args.Get(0).(*usecase.SellerResolution)
	return r, args.Error(1)
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) ConfirmReceipt(ctx context.Context, buyerID, orderID string) (*entity.Order, error) {
	args := m.Called(ctx, buyerID, orderID)
	o, _ := args.Get(0).(*entity.Order)
	return o, args.Error(1)
}

func (m *mockOrderService) GetAutoConfirmRemainingDays(ctx context.Context, userID, orderID string) (*int, error) {
	args := m.Called(ctx, userID, orderID)
	d, _ := args.Get(0).(*int)
	return d, args.Error(1)
}

func (m *mockOrderService) RunAutoConfirm(ctx context.Context) (*usecase.AutoConfirmResult, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*usecase.AutoConfirmResult)
	return r, args.Error(1)
}

type mockOrderChatService struct {
	mock.Mock
}

func (m *mockOrderChatService) SendOrderMessage(ctx context.Context, orderID, senderID, content string) (*entity.OrderMessage, error) {
	args := m.Called(ctx, orderID, senderID, content)
	msg, _ := args.Get(0).(*entity.OrderMessage)
	return msg, args.Error(1)
}

func (m *mockOrderChatService) GetOrderMessages(ctx context.Context, orderID, userID string) ([]*entity.OrderMessage, error) {
	args := m.Called(ctx, orderID, userID)
	msgs, _ := args.Get(0).([]*entity.OrderMessage)
	return msgs, args.Error(1)
}

func (m *mockOrderChatService) MarkMessagesAsRead(ctx context.Context, orderID, userID string) error {
	return m.Called(ctx, orderID, userID).Error(0)
}

func (m *mockOrderChatService) GetUnreadMessageCount(ctx context.Context, userID string, role entity.ChatRole) (int, error) {
	args := m.Called(ctx, userID, role)
	return args.Int(0), args.Error(1)
}

type mockNotificationService struct {
	mock.Mock
}

func (m *mockNotificationService) List(ctx context.Context, userID string, page, pageSize int) ([]*entity.Notification, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	n, _ := args.Get(0).([]*entity.Notification)
	return n, args.Get(1).(int64), args.Error(2)
}

func (m *mockNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

type mockBankVerificationService struct {
	mock.Mock
}

func (m *mockBankVerificationService) VerifyBankAccount(ctx context.Context, ownerID, shopID, accountID string, in usecase.BankAccountInput) (*usecase.BankVerificationResult, error) {
	args := m.Called(ctx, ownerID, shopID, accountID, in)
	r, _ := args.Get(0).(*usecase.BankVerificationResult)
	return r, args.Error(1)
}

func (m *mockBankVerificationService) StartMicroDeposit(ctx context.Context, ownerID, shopID, accountID string) (*usecase.MicroDepositChallenge, error) {
	args := m.Called(ctx, ownerID, shopID, accountID)
	r, _ := args.Get(0).(*usecase.MicroDepositChallenge)
	return r, args.Error(1)
}

func (m *mockBankVerificationService) ConfirmMicroDeposits(ctx context.Context, ownerID, verificationID string, amounts []int64) (*usecase.MicroDepositResult, error) {
	args := m.Called(ctx, ownerID, verificationID, amounts)
	r, _ := args.Get(0).(*usecase.MicroDepositResult)
	return r, args.Error(1)
}

type mockBankAccountService struct {
	mock.Mock
}

func (m *mockBankAccountService) SetAccountEnabled(ctx context.Context, ownerID, shopID, accountID string, enabled bool) (*entity.Shop, error) {
	args := m.Called(ctx, ownerID, shopID, accountID, enabled)
	s, _ := args.Get(0).(*entity.Shop)
	return s, args.Error(1)
}

func (m *mockBankAccountService) SetDefaultAccount(ctx context.Context, ownerID, shopID, accountID string) (*entity.Shop, error) {
	args := m.Called(ctx, ownerID, shopID, accountID)
	s, _ := args.Get(0).(*entity.Shop)
	return s, args.Error(1)
}

package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/usecase"
)

// The handlers depend on these narrow views of the use cases.

type DisputeService interface {
	CreateDispute(ctx context.Context, userID string, in usecase.CreateDisputeInput) (*entity.Dispute, error)
	GetDispute(ctx context.Context, userID, disputeID string) (*entity.Dispute, error)
	ListBuyerDisputes(ctx context.Context, userID string, page, pageSize int) ([]*entity.Dispute, int64, error)
	ListSellerDisputes(ctx context.Context, sellerID string, page, pageSize int) ([]*entity.Dispute, int64, error)
	ListDisputes(ctx context.Context, adminID string, status entity.DisputeStatus, page, pageSize int) ([]*entity.Dispute, int64, error)
	MarkInvestigating(ctx context.Context, adminID, disputeID string) (*entity.Dispute, error)
	ResolveByAdmin(ctx context.Context, adminID, disputeID string, in usecase.AdminResolveInput) (*entity.Dispute, error)
	ResolveBySeller(ctx context.Context, sellerID, disputeID string, in usecase.SellerResolveInput) (*usecase.SellerResolution, error)
}

type OrderService interface {
	ConfirmReceipt(ctx context.Context, buyerID, orderID string) (*entity.Order, error)
	GetAutoConfirmRemainingDays(ctx context.Context, userID, orderID string) (*int, error)
	RunAutoConfirm(ctx context.Context) (*usecase.AutoConfirmResult, error)
}

type OrderChatService interface {
	SendOrderMessage(ctx context.Context, orderID, senderID, content string) (*entity.OrderMessage, error)
	GetOrderMessages(ctx context.Context, orderID, userID string) ([]*entity.OrderMessage, error)
	MarkMessagesAsRead(ctx context.Context, orderID, userID string) error
	GetUnreadMessageCount(ctx context.Context, userID string, role entity.ChatRole) (int, error)
}

type NotificationService interface {
	List(ctx context.Context, userID string, page, pageSize int) ([]*entity.Notification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, notificationID string) error
}

type BankVerificationService interface {
	VerifyBankAccount(ctx context.Context, ownerID, shopID, accountID string, in usecase.BankAccountInput) (*usecase.BankVerificationResult, error)
	StartMicroDeposit(ctx context.Context, ownerID, shopID, accountID string) (*usecase.MicroDepositChallenge, error)
	ConfirmMicroDeposits(ctx context.Context, ownerID, verificationID string, amounts []int64) (*usecase.MicroDepositResult, error)
}

type BankAccountService interface {
	SetAccountEnabled(ctx context.Context, ownerID, shopID, accountID string, enabled bool) (*entity.Shop, error)
	SetDefaultAccount(ctx context.Context, ownerID, shopID, accountID string) (*entity.Shop, error)
}

var (
	disputeHandler      *DisputeHandler
	orderHandler        *OrderHandler
	orderChatHandler    *OrderChatHandler
	notificationHandler *NotificationHandler
	bankAccountHandler  *BankAccountHandler
	paymentHandler      *PaymentHandler
	cronHandler         *CronHandler
)

func Setup(
	disputeUseCase DisputeService,
	orderUseCase OrderService,
	orderChatUseCase OrderChatService,
	notificationUseCase NotificationService,
	bankVerificationUseCase BankVerificationService,
	bankAccountUseCase BankAccountService,
) {
	disputeHandler = NewDisputeHandler(disputeUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	orderChatHandler = NewOrderChatHandler(orderChatUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	bankAccountHandler = NewBankAccountHandler(bankVerificationUseCase, bankAccountUseCase)
	paymentHandler = NewPaymentHandler()
	cronHandler = NewCronHandler(orderUseCase)
}

func GetDisputeHandler() *DisputeHandler {
	return disputeHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetOrderChatHandler() *OrderChatHandler {
	return orderChatHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetBankAccountHandler() *BankAccountHandler {
	return bankAccountHandler
}

func GetPaymentHandler() *PaymentHandler {
	return paymentHandler
}

func GetCronHandler() *CronHandler {
	return cronHandler
}

// currentUser returns the uid set by AuthMiddleware.Authenticate.
func currentUser(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}

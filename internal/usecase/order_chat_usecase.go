package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/internal/infrastructure/metrics"
	"gamecodeshop/internal/infrastructure/ratelimit"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/logger"
)

const (
	eventOrderMessage   = "order_message"
	maxOrderMessageLen  = 2000
	notificationPreview = 50
)

type OrderChatUseCase struct {
	chatRepo  repository.OrderChatRepository
	orderRepo repository.OrderRepository
	shopRepo  repository.ShopRepository
	userRepo  repository.UserRepository
	notifier  *NotificationUseCase
	pusher    RealtimePusher
	limiter   ActionLimiter
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewOrderChatUseCase(
	chatRepo repository.OrderChatRepository,
	orderRepo repository.OrderRepository,
	shopRepo repository.ShopRepository,
	userRepo repository.UserRepository,
	notifier *NotificationUseCase,
	pusher RealtimePusher,
	limiter ActionLimiter,
	m *metrics.Metrics,
) *OrderChatUseCase {
	return &OrderChatUseCase{
		chatRepo:  chatRepo,
		orderRepo: orderRepo,
		shopRepo:  shopRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		pusher:    pusher,
		limiter:   limiter,
		metrics:   m,
		now:       time.Now,
	}
}

type chatParticipant struct {
	order *entity.Order
	shop  *entity.Shop
	role  entity.ChatRole
}

// participant resolves userID's side of the order chat. Only the buyer and
// the shop owner take part.
func (uc *OrderChatUseCase) participant(ctx context.Context, orderID, userID string) (*chatParticipant, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	shop, err := uc.shopRepo.GetByID(ctx, order.ShopID)
	if err != nil {
		return nil, err
	}

	switch userID {
	case order.UserID:
		return &chatParticipant{order: order, shop: shop, role: entity.ChatRoleBuyer}, nil
	case shop.OwnerID:
		return &chatParticipant{order: order, shop: shop, role: entity.ChatRoleSeller}, nil
	}
	return nil, errors.Forbidden("คุณไม่มีสิทธิ์เข้าถึงแชทของคำสั่งซื้อนี้", nil)
}

func (uc *OrderChatUseCase) SendOrderMessage(ctx context.Context, orderID, senderID, content string) (*entity.OrderMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("กรุณาพิมพ์ข้อความ", nil)
	}
	if utf8.RuneCountInString(content) > maxOrderMessageLen {
		return nil, errors.BadRequest(fmt.Sprintf("ข้อความยาวเกิน %d ตัวอักษร", maxOrderMessageLen), nil)
	}
	if uc.limiter != nil {
		if ok, _ := uc.limiter.Allow(senderID, ratelimit.ActionSendOrderMessage); !ok {
			return nil, errors.TooManyRequests("คุณส่งข้อความเร็วเกินไป กรุณารอสักครู่")
		}
	}

	p, err := uc.participant(ctx, orderID, senderID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	message := &entity.OrderMessage{
		ID:         uuid.New().String(),
		OrderID:    p.order.ID,
		SenderID:   senderID,
		SenderRole: p.role,
		SenderName: uc.senderName(ctx, p, senderID),
		Content:    content,
		CreatedAt:  now,
	}
	chat := &entity.OrderChat{
		OrderID:       p.order.ID,
		BuyerID:       p.order.UserID,
		SellerID:      p.shop.OwnerID,
		ShopID:        p.shop.ID,
		LastMessage:   content,
		LastMessageAt: now,
	}

	recipientRole, recipientID, link := entity.ChatRoleSeller, p.shop.OwnerID, "/seller/orders/"+p.order.ID
	if p.role == entity.ChatRoleSeller {
		recipientRole, recipientID, link = entity.ChatRoleBuyer, p.order.UserID, "/orders/"+p.order.ID
	}

	if err := uc.chatRepo.AppendMessage(ctx, chat, message, recipientRole); err != nil {
		return nil, err
	}
	uc.metrics.IncOrderMessage()

	if _, err := uc.notifier.Notify(ctx, recipientID, NotificationInput{
		Type:    entity.NotificationOrderMessage,
		Title:   "ข้อความใหม่จาก " + message.SenderName,
		Message: previewText(content, notificationPreview),
		Link:    link,
	}); err != nil {
		logger.LogOrderError(p.order.ID, "notify chat recipient", err)
	}
	if uc.pusher != nil {
		if err := uc.pusher.SendEvent(recipientID, eventOrderMessage, message); err != nil {
			logger.LogOrderError(p.order.ID, "push chat message", err)
		}
	}

	return message, nil
}

func (uc *OrderChatUseCase) senderName(ctx context.Context, p *chatParticipant, senderID string) string {
	if p.role == entity.ChatRoleSeller && strings.TrimSpace(p.shop.Name) != "" {
		return p.shop.Name
	}
	user, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return "ผู้ใช้"
	}
	return user.Name()
}

// GetOrderMessages returns the thread oldest first and clears the reader's
// unread counter.
func (uc *OrderChatUseCase) GetOrderMessages(ctx context.Context, orderID, userID string) ([]*entity.OrderMessage, error) {
	p, err := uc.participant(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := uc.chatRepo.ListMessages(ctx, p.order.ID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*entity.OrderMessage{}
	}

	if err := uc.chatRepo.ResetUnread(ctx, p.order.ID, p.role); err != nil {
		logger.LogOrderError(p.order.ID, "reset unread counter", err)
	}
	return messages, nil
}

func (uc *OrderChatUseCase) MarkMessagesAsRead(ctx context.Context, orderID, userID string) error {
	p, err := uc.participant(ctx, orderID, userID)
	if err != nil {
		return err
	}
	return uc.chatRepo.ResetUnread(ctx, p.order.ID, p.role)
}

// GetUnreadMessageCount sums the user's unread counters across order chats.
func (uc *OrderChatUseCase) GetUnreadMessageCount(ctx context.Context, userID string, role entity.ChatRole) (int, error) {
	if role != entity.ChatRoleBuyer && role != entity.ChatRoleSeller {
		return 0, errors.BadRequest("role must be buyer or seller", nil)
	}

	chats, err := uc.chatRepo.ListByParticipant(ctx, userID, role)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, chat := range chats {
		total += chat.UnreadFor(role)
	}
	return total, nil
}

func previewText(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}

package repository

import (
	"context"

	"gamecodeshop/internal/domain/entity"
)

type OrderChatRepository interface {
	// AppendMessage stores message under orders/{orderId}/messages and upserts
	// the chat summary, incrementing the recipient's unread counter.
	AppendMessage(ctx context.Context, chat *entity.OrderChat, message *entity.OrderMessage, recipient entity.ChatRole) error
	ListMessages(ctx context.Context, orderID string) ([]*entity.OrderMessage, error)
	ResetUnread(ctx context.Context, orderID string, role entity.ChatRole) error
	ListByParticipant(ctx context.Context, userID string, role entity.ChatRole) ([]*entity.OrderChat, error)
}

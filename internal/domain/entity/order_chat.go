package entity

import "time"

type ChatRole string

const (
	ChatRoleBuyer  ChatRole = "buyer"
	ChatRoleSeller ChatRole = "seller"
)

// OrderChat is the per-order summary document kept in orderChats/{orderId}.
type OrderChat struct {
	OrderID       string    `json:"order_id" firestore:"orderId" validate:"required"`
	BuyerID       string    `json:"buyer_id" firestore:"buyerId" validate:"required"`
	SellerID      string    `json:"seller_id" firestore:"sellerId" validate:"required"`
	ShopID        string    `json:"shop_id" firestore:"shopId"`
	LastMessage   string    `json:"last_message" firestore:"lastMessage"`
	LastMessageAt time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	BuyerUnread   int       `json:"buyer_unread" firestore:"buyerUnread" validate:"min=0"`
	SellerUnread  int       `json:"seller_unread" firestore:"sellerUnread" validate:"min=0"`
}

// UnreadFor returns the counter that belongs to role.
func (c *OrderChat) UnreadFor(role ChatRole) int {
	if role == ChatRoleSeller {
		return c.SellerUnread
	}
	return c.BuyerUnread
}

// OrderMessage lives in orders/{orderId}/messages and is never edited.
type OrderMessage struct {
	ID         string    `json:"id" firestore:"id" validate:"required"`
	OrderID    string    `json:"order_id" firestore:"orderId" validate:"required"`
	SenderID   string    `json:"sender_id" firestore:"senderId" validate:"required"`
	SenderRole ChatRole  `json:"sender_role" firestore:"senderRole" validate:"oneof=buyer seller"`
	SenderName string    `json:"sender_name" firestore:"senderName"`
	Content    string    `json:"content" firestore:"content"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

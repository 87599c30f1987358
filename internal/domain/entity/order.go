package entity

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type OrderItem struct {
	ProductID string  `json:"product_id" firestore:"productId"`
	Name      string  `json:"name" firestore:"name" validate:"required"`
	Quantity  int     `json:"quantity" firestore:"quantity" validate:"min=0"`
	Price     float64 `json:"price" firestore:"price" validate:"min=0"`
}

// DeliveredUnit is one purchased unit's credential payload.
type DeliveredUnit struct {
	Code     string `json:"code,omitempty" firestore:"code,omitempty"`
	Username string `json:"username,omitempty" firestore:"username,omitempty"`
	Password string `json:"password,omitempty" firestore:"password,omitempty"`
	Note     string `json:"note,omitempty" firestore:"note,omitempty"`
}

type DeliveredItem struct {
	ItemName string          `json:"item_name" firestore:"itemName" validate:"required"`
	Units    []DeliveredUnit `json:"units" firestore:"units"`
}

type Order struct {
	ID          string      `json:"id" firestore:"id" validate:"required"`
	UserID      string      `json:"user_id" firestore:"userId" validate:"required"`
	ShopID      string      `json:"shop_id" firestore:"shopId" validate:"required"`
	SellerID    string      `json:"seller_id" firestore:"sellerId"`
	Items       []OrderItem `json:"items" firestore:"items" validate:"dive"`
	TotalAmount float64     `json:"total_amount" firestore:"totalAmount" validate:"min=0"`
	Status      OrderStatus `json:"status" firestore:"status" validate:"oneof=pending processing completed cancelled"`

	PaymentStatus   PaymentStatus `json:"payment_status" firestore:"paymentStatus" validate:"oneof=pending completed failed refunded"`
	PaymentMethod   string        `json:"payment_method,omitempty" firestore:"paymentMethod,omitempty"`
	PaymentIntentID string        `json:"-" firestore:"paymentIntentId,omitempty"`

	GameCode            string          `json:"-" firestore:"gameCode,omitempty"`
	DeliveredItems      []DeliveredItem `json:"-" firestore:"deliveredItems,omitempty" validate:"dive"`
	GameCodeDeliveredAt *time.Time      `json:"game_code_delivered_at,omitempty" firestore:"gameCodeDeliveredAt,omitempty"`

	BuyerConfirmed   bool       `json:"buyer_confirmed" firestore:"buyerConfirmed"`
	BuyerConfirmedAt *time.Time `json:"buyer_confirmed_at,omitempty" firestore:"buyerConfirmedAt,omitempty"`
	AutoConfirmed    bool       `json:"auto_confirmed" firestore:"autoConfirmed"`

	HasDispute        bool              `json:"has_dispute" firestore:"hasDispute"`
	DisputeID         string            `json:"dispute_id,omitempty" firestore:"disputeId,omitempty"`
	DisputeStatus     DisputeStatus     `json:"dispute_status,omitempty" firestore:"disputeStatus,omitempty" validate:"omitempty,oneof=pending investigating resolved rejected"`
	DisputeResolution DisputeResolution `json:"dispute_resolution,omitempty" firestore:"disputeResolution,omitempty"`

	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
	CompletedAt *time.Time `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
}

// IsDelivered reports whether the seller has handed over the codes.
func (o *Order) IsDelivered() bool {
	return o.GameCodeDeliveredAt != nil && !o.GameCodeDeliveredAt.IsZero()
}

// MergeDeliveredItems replaces existing items with the same ItemName and
// appends the rest. Items not mentioned in replacements are kept.
func MergeDeliveredItems(existing, replacements []DeliveredItem) []DeliveredItem {
	merged := make([]DeliveredItem, len(existing), len(existing)+len(replacements))
	copy(merged, existing)

	for _, item := range replacements {
		replaced := false
		for i := range merged {
			if merged[i].ItemName == item.ItemName {
				merged[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, item)
		}
	}
	return merged
}

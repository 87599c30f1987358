package entity

import (
	"time"
)

type DisputeType string

const (
	DisputeTypeNotReceived     DisputeType = "not_received"
	DisputeTypeCodeNotWorking  DisputeType = "code_not_working"
	DisputeTypeCodeAlreadyUsed DisputeType = "code_already_used"
	DisputeTypeWrongItem       DisputeType = "wrong_item"
	DisputeTypeOther           DisputeType = "other"
)

type DisputeStatus string

const (
	DisputeStatusPending       DisputeStatus = "pending"
	DisputeStatusInvestigating DisputeStatus = "investigating"
	DisputeStatusResolved      DisputeStatus = "resolved"
	DisputeStatusRejected      DisputeStatus = "rejected"
)

// IsActive reports whether a dispute in this status blocks a new one.
func (s DisputeStatus) IsActive() bool {
	return s == DisputeStatusPending || s == DisputeStatusInvestigating
}

type DisputeResolution string

const (
	ResolutionRefund     DisputeResolution = "refund"
	ResolutionResendCode DisputeResolution = "resend_code"
	ResolutionDismiss    DisputeResolution = "dismiss"
)

type Dispute struct {
	ID          string        `json:"id" firestore:"id" validate:"required"`
	OrderID     string        `json:"order_id" firestore:"orderId" validate:"required"`
	UserID      string        `json:"user_id" firestore:"userId" validate:"required"`
	ShopID      string        `json:"shop_id" firestore:"shopId" validate:"required"`
	SellerID    string        `json:"seller_id" firestore:"sellerId"`
	Type        DisputeType   `json:"type" firestore:"type" validate:"oneof=not_received code_not_working code_already_used wrong_item other"`
	Subject     string        `json:"subject" firestore:"subject" validate:"required"`
	Description string        `json:"description" firestore:"description"`
	Evidence    []string      `json:"evidence" firestore:"evidence"`
	Status      DisputeStatus `json:"status" firestore:"status" validate:"oneof=pending investigating resolved rejected"`

	Resolution     DisputeResolution `json:"resolution,omitempty" firestore:"resolution,omitempty" validate:"omitempty,oneof=refund resend_code dismiss"`
	AdminResponse  string            `json:"admin_response,omitempty" firestore:"adminResponse,omitempty"`
	SellerResponse string            `json:"seller_response,omitempty" firestore:"sellerResponse,omitempty"`
	ResolvedBy     string            `json:"resolved_by,omitempty" firestore:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time        `json:"resolved_at,omitempty" firestore:"resolvedAt,omitempty"`
	RefundFailed   bool              `json:"refund_failed,omitempty" firestore:"refundFailed,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// OrderDisputeUpdate is the slice of an order that dispute writes touch.
// It is applied together with the dispute document in one transaction.
type OrderDisputeUpdate struct {
	HasDispute        bool
	DisputeID         string
	DisputeStatus     DisputeStatus
	DisputeResolution DisputeResolution
	// DeliveredItems and GameCode are only written when non-nil / non-empty.
	DeliveredItems []DeliveredItem
	GameCode       string
}

// Apply copies the update onto an in-memory order.
func (u OrderDisputeUpdate) Apply(order *Order) {
	order.HasDispute = u.HasDispute
	order.DisputeID = u.DisputeID
	order.DisputeStatus = u.DisputeStatus
	if u.DisputeResolution != "" {
		order.DisputeResolution = u.DisputeResolution
	}
	if u.DeliveredItems != nil {
		order.DeliveredItems = u.DeliveredItems
	}
	if u.GameCode != "" {
		order.GameCode = u.GameCode
	}
}

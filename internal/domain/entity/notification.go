package entity

import "time"

type NotificationType string

const (
	NotificationDisputeCreated  NotificationType = "dispute_created"
	NotificationDisputeUpdated  NotificationType = "dispute_updated"
	NotificationDisputeResolved NotificationType = "dispute_resolved"
	NotificationOrderConfirmed  NotificationType = "order_confirmed"
	NotificationOrderMessage    NotificationType = "order_message"
	NotificationBankVerified    NotificationType = "bank_verified"
)

type Notification struct {
	ID        string           `json:"id" firestore:"id" validate:"required"`
	UserID    string           `json:"user_id" firestore:"userId" validate:"required"`
	Type      NotificationType `json:"type" firestore:"type" validate:"required"`
	Title     string           `json:"title" firestore:"title"`
	Message   string           `json:"message" firestore:"message"`
	Link      string           `json:"link,omitempty" firestore:"link,omitempty"`
	Read      bool             `json:"read" firestore:"read"`
	CreatedAt time.Time        `json:"created_at" firestore:"createdAt"`
}

package repository

import (
	"context"
	"time"

	"gamecodeshop/internal/domain/entity"
)

// MalformedDocument is a document that was found but failed to decode or
// validate.
type MalformedDocument struct {
	ID  string
	Err error
}

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)

	// ListAwaitingConfirmation returns orders with buyerConfirmed == false and
	// paymentStatus == completed. Documents that fail to decode are reported
	// separately and do not fail the listing.
	ListAwaitingConfirmation(ctx context.Context) ([]*entity.Order, []MalformedDocument, error)

	// ConfirmReceipt marks the order completed and buyer-confirmed. It
	// re-reads the order inside a transaction and returns false without
	// writing when the order is already confirmed.
	ConfirmReceipt(ctx context.Context, orderID string, at time.Time, auto bool) (bool, error)
}

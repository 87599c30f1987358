package repository

import (
	"context"

	"gamecodeshop/internal/domain/entity"
)

type DisputeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Dispute, error)
	FindActiveByOrderID(ctx context.Context, orderID string) (*entity.Dispute, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Dispute, int64, error)
	ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Dispute, int64, error)
	List(ctx context.Context, status entity.DisputeStatus, limit, offset int) ([]*entity.Dispute, int64, error)

	// CreateWithOrder inserts the dispute and applies update to its order in
	// one transaction. It fails with a CONFLICT AppError when another active
	// dispute exists for the order at commit time.
	CreateWithOrder(ctx context.Context, dispute *entity.Dispute, update entity.OrderDisputeUpdate) error

	// UpdateWithOrder writes the dispute and applies update to its order in
	// one transaction.
	UpdateWithOrder(ctx context.Context, dispute *entity.Dispute, update entity.OrderDisputeUpdate) error
}

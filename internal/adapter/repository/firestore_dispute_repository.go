package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/pkg/errors"
)

const disputesCollection = "disputes"

var activeDisputeStatuses = []string{
	string(entity.DisputeStatusPending),
	string(entity.DisputeStatusInvestigating),
}

type firestoreDisputeRepository struct {
	client *firestore.Client
}

func NewFirestoreDisputeRepository(client *firestore.Client) repository.DisputeRepository {
	return &firestoreDisputeRepository{
		client: client,
	}
}

func decodeDispute(doc *firestore.DocumentSnapshot) (*entity.Dispute, error) {
	var dispute entity.Dispute
	if err := doc.DataTo(&dispute); err != nil {
		return nil, errors.Internal("Failed to parse dispute data", err)
	}
	if dispute.ID == "" {
		dispute.ID = doc.Ref.ID
	}
	if err := entity.ValidateDocument(&dispute); err != nil {
		return nil, errors.Internal("Malformed dispute document", err)
	}
	return &dispute, nil
}

func (r *firestoreDisputeRepository) GetByID(ctx context.Context, id string) (*entity.Dispute, error) {
	doc, err := r.client.Collection(disputesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("ไม่พบรายงานปัญหา", err)
		}
		return nil, errors.Internal("Failed to get dispute", err)
	}
	return decodeDispute(doc)
}

func (r *firestoreDisputeRepository) activeQuery(orderID string) firestore.Query {
	return r.client.Collection(disputesCollection).
		Where("orderId", "==", orderID).
		Where("status", "in", activeDisputeStatuses).
		Limit(1)
}

func (r *firestoreDisputeRepository) FindActiveByOrderID(ctx context.Context, orderID string) (*entity.Dispute, error) {
	docs, err := r.activeQuery(orderID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query disputes", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeDispute(docs[0])
}

func (r *firestoreDisputeRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Dispute, int64, error) {
	query := r.client.Collection(disputesCollection).Where("userId", "==", userID)
	return r.list(ctx, query, limit, offset)
}

func (r *firestoreDisputeRepository) ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Dispute, int64, error) {
	query := r.client.Collection(disputesCollection).Where("sellerId", "==", sellerID)
	return r.list(ctx, query, limit, offset)
}

func (r *firestoreDisputeRepository) List(ctx context.Context, disputeStatus entity.DisputeStatus, limit, offset int) ([]*entity.Dispute, int64, error) {
	query := r.client.Collection(disputesCollection).Query
	if disputeStatus != "" {
		query = query.Where("status", "==", string(disputeStatus))
	}
	return r.list(ctx, query, limit, offset)
}

func (r *firestoreDisputeRepository) list(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Dispute, int64, error) {
	countResult, err := query.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count disputes", err)
	}
	total := aggregateCount(countResult, "all")

	query = query.OrderBy("createdAt", firestore.Desc)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var disputes []*entity.Dispute
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate disputes", err)
		}

		dispute, err := decodeDispute(doc)
		if err != nil {
			return nil, 0, err
		}
		disputes = append(disputes, dispute)
	}

	return disputes, total, nil
}

func orderDisputeUpdates(update entity.OrderDisputeUpdate, now time.Time) []firestore.Update {
	updates := []firestore.Update{
		{Path: "hasDispute", Value: update.HasDispute},
		{Path: "disputeId", Value: update.DisputeID},
		{Path: "disputeStatus", Value: string(update.DisputeStatus)},
		{Path: "updatedAt", Value: now},
	}
	if update.DisputeResolution != "" {
		updates = append(updates, firestore.Update{Path: "disputeResolution", Value: string(update.DisputeResolution)})
	}
	if update.DeliveredItems != nil {
		updates = append(updates, firestore.Update{Path: "deliveredItems", Value: update.DeliveredItems})
	}
	if update.GameCode != "" {
		updates = append(updates, firestore.Update{Path: "gameCode", Value: update.GameCode})
	}
	return updates
}

func (r *firestoreDisputeRepository) CreateWithOrder(ctx context.Context, dispute *entity.Dispute, update entity.OrderDisputeUpdate) error {
	if err := entity.ValidateDocument(dispute); err != nil {
		return errors.BadRequest("ข้อมูลรายงานปัญหาไม่ถูกต้อง", err)
	}

	disputeRef := r.client.Collection(disputesCollection).Doc(dispute.ID)
	orderRef := r.client.Collection(ordersCollection).Doc(dispute.OrderID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(orderRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("ไม่พบคำสั่งซื้อ", err)
			}
			return err
		}

		existing, err := tx.Documents(r.activeQuery(dispute.OrderID)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return errors.Conflict("คำสั่งซื้อนี้มีการรายงานปัญหาอยู่แล้ว", nil)
		}

		if err := tx.Create(disputeRef, dispute); err != nil {
			return err
		}
		return tx.Update(orderRef, orderDisputeUpdates(update, dispute.CreatedAt))
	})
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return err
		}
		return errors.Internal("Failed to create dispute", err)
	}

	return nil
}

func (r *firestoreDisputeRepository) UpdateWithOrder(ctx context.Context, dispute *entity.Dispute, update entity.OrderDisputeUpdate) error {
	if err := entity.ValidateDocument(dispute); err != nil {
		return errors.BadRequest("ข้อมูลรายงานปัญหาไม่ถูกต้อง", err)
	}

	disputeRef := r.client.Collection(disputesCollection).Doc(dispute.ID)
	orderRef := r.client.Collection(ordersCollection).Doc(dispute.OrderID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(orderRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("ไม่พบคำสั่งซื้อ", err)
			}
			return err
		}
		if err := tx.Set(disputeRef, dispute); err != nil {
			return err
		}
		return tx.Update(orderRef, orderDisputeUpdates(update, dispute.UpdatedAt))
	})
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return err
		}
		return errors.Internal("Failed to update dispute", err)
	}

	return nil
}

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
	"gamecodeshop/pkg/logger"
)

const ordersCollection = "orders"

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func decodeOrder(doc *firestore.DocumentSnapshot) (*entity.Order, error) {
	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}
	if order.ID == "" {
		order.ID = doc.Ref.ID
	}
	if err := entity.ValidateDocument(&order); err != nil {
		return nil, errors.Internal("Malformed order document", err)
	}
	return &order, nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection(ordersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("ไม่พบคำสั่งซื้อ", err)
		}
		return nil, errors.Internal("Failed to get order", err)
	}
	return decodeOrder(doc)
}

func (r *firestoreOrderRepository) ListAwaitingConfirmation(ctx context.Context) ([]*entity.Order, []repository.MalformedDocument, error) {
	iter := r.client.Collection(ordersCollection).
		Where("buyerConfirmed", "==", false).
		Where("paymentStatus", "==", string(entity.PaymentStatusCompleted)).
		Documents(ctx)
	defer iter.Stop()

	var orders []*entity.Order
	var malformed []repository.MalformedDocument
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, errors.Internal("Failed to iterate orders", err)
		}

		order, err := decodeOrder(doc)
		if err != nil {
			logger.Warn("Skipping malformed order %s: %v", doc.Ref.ID, err)
			malformed = append(malformed, repository.MalformedDocument{ID: doc.Ref.ID, Err: err})
			continue
		}
		orders = append(orders, order)
	}

	return orders, malformed, nil
}

func (r *firestoreOrderRepository) ConfirmReceipt(ctx context.Context, orderID string, at time.Time, auto bool) (bool, error) {
	ref := r.client.Collection(ordersCollection).Doc(orderID)
	confirmed := false

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		confirmed = false

		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("ไม่พบคำสั่งซื้อ", err)
			}
			return err
		}
		order, err := decodeOrder(doc)
		if err != nil {
			return err
		}
		if order.BuyerConfirmed {
			return nil
		}

		confirmed = true
		return tx.Update(ref, []firestore.Update{
			{Path: "buyerConfirmed", Value: true},
			{Path: "buyerConfirmedAt", Value: at},
			{Path: "autoConfirmed", Value: auto},
			{Path: "status", Value: string(entity.OrderStatusCompleted)},
			{Path: "completedAt", Value: at},
			{Path: "updatedAt", Value: at},
		})
	})
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return false, err
		}
		return false, errors.Internal("Failed to confirm order", err)
	}

	return confirmed, nil
}

package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/pkg/errors"
)

// Firestore caps a write batch at 500 operations.
const maxBatchWrites = 500

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) collection() *firestore.CollectionRef {
	return r.client.Collection("notifications")
}

func decodeNotification(doc *firestore.DocumentSnapshot) (*entity.Notification, error) {
	var notification entity.Notification
	if err := doc.DataTo(&notification); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}
	if notification.ID == "" {
		notification.ID = doc.Ref.ID
	}
	if err := entity.ValidateDocument(&notification); err != nil {
		return nil, errors.Internal("Malformed notification document", err)
	}
	return &notification, nil
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	if err := entity.ValidateDocument(notification); err != nil {
		return errors.BadRequest("Invalid notification", err)
	}

	if _, err := r.collection().Doc(notification.ID).Set(ctx, notification); err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	doc, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("ไม่พบการแจ้งเตือน", err)
		}
		return nil, errors.Internal("Failed to get notification", err)
	}
	return decodeNotification(doc)
}

func (r *firestoreNotificationRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	query := r.collection().Where("userId", "==", userID)

	countResult, err := query.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count notifications", err)
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

	var notifications []*entity.Notification
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate notifications", err)
		}

		notification, err := decodeNotification(doc)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, notification)
	}

	return notifications, total, nil
}

func (r *firestoreNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	query := r.collection().
		Where("userId", "==", userID).
		Where("read", "==", false)
	result, err := query.NewAggregationQuery().WithCount("unread").Get(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to count unread notifications", err)
	}
	return aggregateCount(result, "unread"), nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.collection().Doc(id).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("ไม่พบการแจ้งเตือน", err)
		}
		return errors.Internal("Failed to mark notification as read", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	docs, err := r.collection().
		Where("userId", "==", userID).
		Where("read", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query unread notifications", err)
	}

	for start := 0; start < len(docs); start += maxBatchWrites {
		end := start + maxBatchWrites
		if end > len(docs) {
			end = len(docs)
		}

		batch := r.client.Batch()
		for _, doc := range docs[start:end] {
			batch.Update(doc.Ref, []firestore.Update{{Path: "read", Value: true}})
		}
		if _, err := batch.Commit(ctx); err != nil {
			return start, errors.Internal("Failed to mark notifications as read", err)
		}
	}

	return len(docs), nil
}

func (r *firestoreNotificationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.collection().Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete notification", err)
	}
	return nil
}

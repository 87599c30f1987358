package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/pkg/errors"
)

const orderChatsCollection = "orderChats"

type firestoreOrderChatRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderChatRepository(client *firestore.Client) repository.OrderChatRepository {
	return &firestoreOrderChatRepository{
		client: client,
	}
}

func unreadField(role entity.ChatRole) string {
	if role == entity.ChatRoleSeller {
		return "sellerUnread"
	}
	return "buyerUnread"
}

func participantField(role entity.ChatRole) string {
	if role == entity.ChatRoleSeller {
		return "sellerId"
	}
	return "buyerId"
}

func (r *firestoreOrderChatRepository) AppendMessage(ctx context.Context, chat *entity.OrderChat, message *entity.OrderMessage, recipient entity.ChatRole) error {
	if err := entity.ValidateDocument(message); err != nil {
		return errors.BadRequest("ข้อความไม่ถูกต้อง", err)
	}

	messageRef := r.client.Collection(ordersCollection).Doc(message.OrderID).Collection("messages").Doc(message.ID)
	chatRef := r.client.Collection(orderChatsCollection).Doc(chat.OrderID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(messageRef, message); err != nil {
			return err
		}
		return tx.Set(chatRef, map[string]interface{}{
			"orderId":              chat.OrderID,
			"buyerId":              chat.BuyerID,
			"sellerId":             chat.SellerID,
			"shopId":               chat.ShopID,
			"lastMessage":          chat.LastMessage,
			"lastMessageAt":        chat.LastMessageAt,
			unreadField(recipient): firestore.Increment(1),
		}, firestore.MergeAll)
	})
	if err != nil {
		return errors.Internal("Failed to send message", err)
	}

	return nil
}

func (r *firestoreOrderChatRepository) ListMessages(ctx context.Context, orderID string) ([]*entity.OrderMessage, error) {
	iter := r.client.Collection(ordersCollection).Doc(orderID).Collection("messages").
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var messages []*entity.OrderMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.OrderMessage
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		if err := entity.ValidateDocument(&message); err != nil {
			return nil, errors.Internal("Malformed message document", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreOrderChatRepository) ResetUnread(ctx context.Context, orderID string, role entity.ChatRole) error {
	_, err := r.client.Collection(orderChatsCollection).Doc(orderID).Update(ctx, []firestore.Update{
		{Path: unreadField(role), Value: 0},
	})
	if err != nil {
		// No summary exists until the first message is sent.
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return errors.Internal("Failed to reset unread counter", err)
	}
	return nil
}

func (r *firestoreOrderChatRepository) ListByParticipant(ctx context.Context, userID string, role entity.ChatRole) ([]*entity.OrderChat, error) {
	docs, err := r.client.Collection(orderChatsCollection).
		Where(participantField(role), "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query order chats", err)
	}

	chats := make([]*entity.OrderChat, 0, len(docs))
	for _, doc := range docs {
		var chat entity.OrderChat
		if err := doc.DataTo(&chat); err != nil {
			return nil, errors.Internal("Failed to parse order chat data", err)
		}
		if err := entity.ValidateDocument(&chat); err != nil {
			return nil, errors.Internal("Malformed order chat document", err)
		}
		chats = append(chats, &chat)
	}

	return chats, nil
}

package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/pkg/errors"
)

type firestoreShopRepository struct {
	client *firestore.Client
}

func NewFirestoreShopRepository(client *firestore.Client) repository.ShopRepository {
	return &firestoreShopRepository{
		client: client,
	}
}

func decodeShop(doc *firestore.DocumentSnapshot) (*entity.Shop, error) {
	var shop entity.Shop
	if err := doc.DataTo(&shop); err != nil {
		return nil, errors.Internal("Failed to parse shop data", err)
	}
	if shop.ID == "" {
		shop.ID = doc.Ref.ID
	}
	if err := entity.ValidateDocument(&shop); err != nil {
		return nil, errors.Internal("Malformed shop document", err)
	}
	return &shop, nil
}

func (r *firestoreShopRepository) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	doc, err := r.client.Collection("shops").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("ไม่พบร้านค้า", err)
		}
		return nil, errors.Internal("Failed to get shop", err)
	}
	return decodeShop(doc)
}

func (r *firestoreShopRepository) UpdateBankAccounts(ctx context.Context, shopID string, mutate func(shop *entity.Shop) error) (*entity.Shop, error) {
	ref := r.client.Collection("shops").Doc(shopID)
	var updated *entity.Shop

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("ไม่พบร้านค้า", err)
			}
			return err
		}
		shop, err := decodeShop(doc)
		if err != nil {
			return err
		}

		if err := mutate(shop); err != nil {
			return err
		}
		if err := entity.ValidateDocument(shop); err != nil {
			return errors.BadRequest("ข้อมูลบัญชีไม่ถูกต้อง", err)
		}

		shop.UpdatedAt = time.Now()
		updated = shop
		return tx.Update(ref, []firestore.Update{
			{Path: "bankAccounts", Value: shop.BankAccounts},
			{Path: "updatedAt", Value: shop.UpdatedAt},
		})
	})
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to update bank accounts", err)
	}

	return updated, nil
}

package repository

import (
	"context"

	"gamecodeshop/internal/domain/entity"
)

type ShopRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Shop, error)

	// UpdateBankAccounts loads the shop inside a transaction, lets mutate
	// change the embedded bank accounts and writes them back.
	UpdateBankAccounts(ctx context.Context, shopID string, mutate func(shop *entity.Shop) error) (*entity.Shop, error)
}

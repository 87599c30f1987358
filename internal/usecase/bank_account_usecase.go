package usecase

import (
	"context"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/pkg/errors"
)

// BankAccountUseCase guards the payout account switches on a shop.
type BankAccountUseCase struct {
	shopRepo repository.ShopRepository
}

func NewBankAccountUseCase(shopRepo repository.ShopRepository) *BankAccountUseCase {
	return &BankAccountUseCase{shopRepo: shopRepo}
}

func (uc *BankAccountUseCase) mutate(ctx context.Context, ownerID, shopID, accountID string, change func(shop *entity.Shop, account *entity.BankAccount) error) (*entity.Shop, error) {
	return uc.shopRepo.UpdateBankAccounts(ctx, shopID, func(shop *entity.Shop) error {
		if shop.OwnerID != ownerID {
			return errors.Forbidden("คุณไม่มีสิทธิ์จัดการบัญชีของร้านนี้", nil)
		}
		account, _ := shop.FindBankAccount(accountID)
		if account == nil {
			return errors.NotFound("ไม่พบบัญชีธนาคาร", nil)
		}
		return change(shop, account)
	})
}

// SetAccountEnabled only enables verified accounts and never disables the
// last enabled one.
func (uc *BankAccountUseCase) SetAccountEnabled(ctx context.Context, ownerID, shopID, accountID string, enabled bool) (*entity.Shop, error) {
	return uc.mutate(ctx, ownerID, shopID, accountID, func(shop *entity.Shop, account *entity.BankAccount) error {
		if enabled == account.IsEnabled {
			return nil
		}
		if enabled {
			if account.VerificationStatus != entity.VerificationVerified {
				return errors.BadRequest("ต้องยืนยันบัญชีก่อนเปิดใช้งาน", nil)
			}
			account.IsEnabled = true
			return nil
		}

		if shop.EnabledAccountCount() <= 1 {
			return errors.BadRequest("ต้องมีบัญชีรับเงินที่เปิดใช้งานอย่างน้อย 1 บัญชี", nil)
		}
		account.IsEnabled = false
		if account.IsDefault {
			account.IsDefault = false
			for i := range shop.BankAccounts {
				if shop.BankAccounts[i].IsEnabled {
					shop.BankAccounts[i].IsDefault = true
					break
				}
			}
		}
		return nil
	})
}

func (uc *BankAccountUseCase) SetDefaultAccount(ctx context.Context, ownerID, shopID, accountID string) (*entity.Shop, error) {
	return uc.mutate(ctx, ownerID, shopID, accountID, func(shop *entity.Shop, account *entity.BankAccount) error {
		if account.VerificationStatus != entity.VerificationVerified || !account.IsEnabled {
			return errors.BadRequest("บัญชีหลักต้องยืนยันแล้วและเปิดใช้งานอยู่", nil)
		}
		for i := range shop.BankAccounts {
			shop.BankAccounts[i].IsDefault = shop.BankAccounts[i].ID == accountID
		}
		return nil
	})
}

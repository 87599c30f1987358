package entity

import "time"

const MicroDepositMaxAttempts = 3

// BankVerification tracks a micro-deposit challenge in bankVerifications.
type BankVerification struct {
	ID          string             `json:"id" firestore:"id" validate:"required"`
	ShopID      string             `json:"shop_id" firestore:"shopId" validate:"required"`
	AccountID   string             `json:"account_id" firestore:"accountId" validate:"required"`
	Amounts     []int64            `json:"-" firestore:"amounts" validate:"len=2"`
	TransferIDs []string           `json:"-" firestore:"transferIds,omitempty"`
	Attempts    int                `json:"attempts" firestore:"attempts" validate:"min=0"`
	MaxAttempts int                `json:"max_attempts" firestore:"maxAttempts" validate:"min=1"`
	Status      VerificationStatus `json:"status" firestore:"status" validate:"oneof=pending verified failed"`
	CreatedAt   time.Time          `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time          `json:"updated_at" firestore:"updatedAt"`
	VerifiedAt  *time.Time         `json:"verified_at,omitempty" firestore:"verifiedAt,omitempty"`
}

func (v *BankVerification) RemainingAttempts() int {
	remaining := v.MaxAttempts - v.Attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OmiseSettings mirrors the settings/omise document.
type OmiseSettings struct {
	PublicKey string `firestore:"publicKey"`
	SecretKey string `firestore:"secretKey"`
	Mode      string `firestore:"mode"`
}

package entity

import "time"

type AccountType string

const (
	AccountTypeBank      AccountType = "bank"
	AccountTypePromptPay AccountType = "promptpay"
)

type PromptPayType string

const (
	PromptPayPhone      PromptPayType = "phone"
	PromptPayNationalID PromptPayType = "national_id"
	PromptPayEWallet    PromptPayType = "ewallet"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationFailed   VerificationStatus = "failed"
)

type BankAccount struct {
	ID          string      `json:"id" firestore:"id" validate:"required"`
	AccountType AccountType `json:"account_type" firestore:"accountType" validate:"oneof=bank promptpay"`

	BankCode      string `json:"bank_code,omitempty" firestore:"bankCode,omitempty"`
	BankName      string `json:"bank_name,omitempty" firestore:"bankName,omitempty"`
	AccountNumber string `json:"account_number,omitempty" firestore:"accountNumber,omitempty"`
	AccountName   string `json:"account_name,omitempty" firestore:"accountName,omitempty"`

	PromptPayID   string        `json:"promptpay_id,omitempty" firestore:"promptPayId,omitempty"`
	PromptPayType PromptPayType `json:"promptpay_type,omitempty" firestore:"promptPayType,omitempty"`

	IsDefault          bool               `json:"is_default" firestore:"isDefault"`
	IsEnabled          bool               `json:"is_enabled" firestore:"isEnabled"`
	VerificationStatus VerificationStatus `json:"verification_status" firestore:"verificationStatus" validate:"omitempty,oneof=pending verified failed"`
	VerificationError  string             `json:"verification_error,omitempty" firestore:"verificationError,omitempty"`
	OmiseRecipientID   string             `json:"omise_recipient_id,omitempty" firestore:"omiseRecipientId,omitempty"`
	LastTransferID     string             `json:"last_transfer_id,omitempty" firestore:"lastTransferId,omitempty"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty" firestore:"verifiedAt,omitempty"`
}

type Shop struct {
	ID           string        `json:"id" firestore:"id" validate:"required"`
	OwnerID      string        `json:"owner_id" firestore:"ownerId" validate:"required"`
	Name         string        `json:"name" firestore:"name"`
	BankAccounts []BankAccount `json:"bank_accounts" firestore:"bankAccounts" validate:"dive"`
	CreatedAt    time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time     `json:"updated_at" firestore:"updatedAt"`
}

func (s *Shop) FindBankAccount(accountID string) (*BankAccount, int) {
	for i := range s.BankAccounts {
		if s.BankAccounts[i].ID == accountID {
			return &s.BankAccounts[i], i
		}
	}
	return nil, -1
}

func (s *Shop) EnabledAccountCount() int {
	count := 0
	for _, account := range s.BankAccounts {
		if account.IsEnabled {
			count++
		}
	}
	return count
}

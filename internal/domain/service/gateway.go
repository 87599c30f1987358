package service

import "context"

type TransferState string

const (
	TransferPending  TransferState = "pending"
	TransferSent     TransferState = "sent"
	TransferPaid     TransferState = "paid"
	TransferFailed   TransferState = "failed"
	TransferReversed TransferState = "reversed"
)

type RecipientRequest struct {
	Name          string
	Email         string
	Description   string
	BankBrand     string
	AccountNumber string
	AccountName   string
}

type Recipient struct {
	ID       string
	Active   bool
	Verified bool
}

type Transfer struct {
	ID             string
	Amount         int64
	State          TransferState
	FailureMessage string
}

type Refund struct {
	ID     string
	Status string
	Amount int64
}

// PayoutGateway creates payees and pushes money to them. Amounts are in
// satang.
type PayoutGateway interface {
	CreateRecipient(ctx context.Context, req RecipientRequest) (*Recipient, error)
	GetRecipient(ctx context.Context, recipientID string) (*Recipient, error)
	CreateTransfer(ctx context.Context, recipientID string, amount int64) (*Transfer, error)
}

// RefundGateway refunds a captured payment intent in full.
type RefundGateway interface {
	Refund(ctx context.Context, paymentIntentID string) (*Refund, error)
}

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"gamecodeshop/pkg/logger"
)

// OmisePayoutService talks to the Omise recipients and transfers API.
type OmisePayoutService struct {
	keys      *OmiseKeyLoader
	transport http.RoundTripper
}

func NewOmisePayoutService(keys *OmiseKeyLoader) *OmisePayoutService {
	return &OmisePayoutService{keys: keys}
}

// client builds an Omise client for the current keys. Keys rotate through
// the loader, so clients are not cached.
func (s *OmisePayoutService) client(ctx context.Context) (*omise.Client, error) {
	keys, err := s.keys.Load(ctx)
	if err != nil {
		return nil, err
	}
	client, err := omise.NewClient(keys.PublicKey, keys.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("invalid omise keys: %w", err)
	}
	if s.transport != nil {
		client.Transport = s.transport
	}
	client.WithContext(ctx)
	return client, nil
}

func (s *OmisePayoutService) CreateRecipient(ctx context.Context, req RecipientRequest) (*Recipient, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	recipient := &omise.Recipient{}
	err = client.Do(recipient, &operations.CreateRecipient{
		Name:        req.Name,
		Email:       req.Email,
		Description: req.Description,
		Type:        omise.Individual,
		BankAccount: &omise.BankAccount{
			Brand:  req.BankBrand,
			Number: req.AccountNumber,
			Name:   req.AccountName,
		},
	})
	if err != nil {
		return nil, omiseError(err)
	}

	logger.Info("Omise recipient created: %s", recipient.ID)
	return &Recipient{ID: recipient.ID, Active: recipient.Active, Verified: recipient.Verified}, nil
}

func (s *OmisePayoutService) GetRecipient(ctx context.Context, recipientID string) (*Recipient, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	recipient := &omise.Recipient{}
	if err := client.Do(recipient, &operations.RetrieveRecipient{RecipientID: recipientID}); err != nil {
		return nil, omiseError(err)
	}
	return &Recipient{ID: recipient.ID, Active: recipient.Active, Verified: recipient.Verified}, nil
}

func (s *OmisePayoutService) CreateTransfer(ctx context.Context, recipientID string, amount int64) (*Transfer, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	transfer := &omise.Transfer{}
	if err := client.Do(transfer, &operations.CreateTransfer{Amount: amount, Recipient: recipientID}); err != nil {
		return nil, omiseError(err)
	}

	result := &Transfer{
		ID:     transfer.ID,
		Amount: transfer.Amount,
		State:  transferState(transfer),
	}
	if transfer.FailureMessage != nil {
		result.FailureMessage = *transfer.FailureMessage
	}

	logger.Info("Omise transfer %s to %s: state=%s", transfer.ID, recipientID, result.State)
	return result, nil
}

// transferState maps an Omise transfer onto the gateway states. Omise does
// not report reversals on transfers, so TransferReversed never comes from here.
func transferState(t *omise.Transfer) TransferState {
	switch {
	case t.FailureCode != nil && *t.FailureCode != "":
		return TransferFailed
	case t.Paid:
		return TransferPaid
	case t.Sent:
		return TransferSent
	default:
		return TransferPending
	}
}

// omiseError keeps the API's own message so callers can show it verbatim.
func omiseError(err error) error {
	var apiErr *omise.Error
	if stderrors.As(err, &apiErr) {
		return fmt.Errorf("omise %s: %s", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("omise request failed: %w", err)
}

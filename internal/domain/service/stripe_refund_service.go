package service

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"
)

// StripeRefundService refunds card payments captured through Stripe.
type StripeRefundService struct {
	client *stripe.Client
}

func NewStripeRefundService(secretKey string) *StripeRefundService {
	if secretKey == "" {
		return &StripeRefundService{}
	}
	return &StripeRefundService{client: stripe.NewClient(secretKey)}
}

func (s *StripeRefundService) Refund(ctx context.Context, paymentIntentID string) (*Refund, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("stripe is not configured")
	}
	if paymentIntentID == "" {
		return nil, fmt.Errorf("order has no payment intent")
	}

	params := &stripe.RefundCreateParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}

	refund, err := s.client.V1Refunds.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to refund payment intent %s: %w", paymentIntentID, err)
	}

	return &Refund{
		ID:     refund.ID,
		Status: string(refund.Status),
		Amount: refund.Amount,
	}, nil
}

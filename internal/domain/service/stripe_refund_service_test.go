package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripeRefundUnconfigured(t *testing.T) {
	_, err := NewStripeRefundService("").Refund(context.Background(), "pi_123")
	assert.EqualError(t, err, "stripe is not configured")
}

func TestStripeRefundRequiresPaymentIntent(t *testing.T) {
	_, err := NewStripeRefundService("sk_test_dummy").Refund(context.Background(), "")
	assert.EqualError(t, err, "order has no payment intent")
}

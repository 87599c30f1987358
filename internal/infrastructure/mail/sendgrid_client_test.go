package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendRejectsMissingFields(t *testing.T) {
	ctx := context.Background()

	err := NewSendGridClient("", "").Send(ctx, "a@b.c", "d@e.f", "s", "b")
	assert.EqualError(t, err, "sendgrid api key is empty")

	client := NewSendGridClient("SG.key", "")
	assert.EqualError(t, client.Send(ctx, "", "d@e.f", "s", "b"), "from address is empty")
	assert.EqualError(t, client.Send(ctx, "a@b.c", "", "s", "b"), "to address is empty")
}

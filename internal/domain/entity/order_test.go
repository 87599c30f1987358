package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDeliveredItems(t *testing.T) {
	existing := []DeliveredItem{
		{ItemName: "ROV 100 คูปอง", Units: []DeliveredUnit{{Code: "OLD-1"}}},
		{ItemName: "Steam Wallet 500", Units: []DeliveredUnit{{Code: "KEEP-1"}}},
	}
	replacements := []DeliveredItem{
		{ItemName: "ROV 100 คูปอง", Units: []DeliveredUnit{{Code: "NEW-1"}}},
		{ItemName: "Genshin 60", Units: []DeliveredUnit{{Code: "ADD-1"}}},
	}

	merged := MergeDeliveredItems(existing, replacements)

	require.Len(t, merged, 3)
	assert.Equal(t, "NEW-1", merged[0].Units[0].Code)
	assert.Equal(t, "KEEP-1", merged[1].Units[0].Code)
	assert.Equal(t, "Genshin 60", merged[2].ItemName)
	assert.Equal(t, "OLD-1", existing[0].Units[0].Code, "input slice must not be mutated")
}

func TestMergeDeliveredItemsIntoEmpty(t *testing.T) {
	merged := MergeDeliveredItems(nil, []DeliveredItem{{ItemName: "A"}})
	require.Len(t, merged, 1)
	assert.Equal(t, "A", merged[0].ItemName)
}

func TestOrderIsDelivered(t *testing.T) {
	order := &Order{}
	assert.False(t, order.IsDelivered())

	now := time.Now()
	order.GameCodeDeliveredAt = &now
	assert.True(t, order.IsDelivered())
}

func TestValidateDocumentRejectsMalformedOrder(t *testing.T) {
	order := &Order{ID: "o1", UserID: "u1", ShopID: "s1", Status: "shipped", PaymentStatus: PaymentStatusCompleted}
	assert.Error(t, ValidateDocument(order))

	order.Status = OrderStatusProcessing
	assert.NoError(t, ValidateDocument(order))
}

func TestDisputeStatusIsActive(t *testing.T) {
	assert.True(t, DisputeStatusPending.IsActive())
	assert.True(t, DisputeStatusInvestigating.IsActive())
	assert.False(t, DisputeStatusResolved.IsActive())
	assert.False(t, DisputeStatusRejected.IsActive())
}

func TestUserName(t *testing.T) {
	assert.Equal(t, "Somchai", (&User{DisplayName: " Somchai "}).Name())
	assert.Equal(t, "nok", (&User{Email: "nok@example.com"}).Name())
	assert.Equal(t, "ผู้ใช้", (&User{}).Name())
}

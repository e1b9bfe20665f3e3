package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTagEvent(t *testing.T) {
	goodID := uuid.New()
	userID := uuid.New()

	t.Run("creates tag-in audit record", func(t *testing.T) {
		ev, err := NewTagEvent(goodID, TagActionIn, "TAG-001", decimal.NewFromInt(5), decimal.Zero, decimal.NewFromInt(5), userID)

		require.NoError(t, err)
		assert.Equal(t, "TAG-001", ev.TagID)
		assert.Equal(t, TagActionIn, ev.Action)
		assert.True(t, ev.PreviousStock.IsZero())
		assert.Equal(t, decimal.NewFromInt(5), ev.NewStock)
		assert.Nil(t, ev.OrderItemID)
	})

	t.Run("requires tag ID for tag operations", func(t *testing.T) {
		ev, err := NewTagEvent(goodID, TagActionOut, "", decimal.NewFromInt(-1), decimal.NewFromInt(5), decimal.NewFromInt(4), userID)

		require.Error(t, err)
		assert.Nil(t, ev)
	})

	t.Run("allows empty tag ID for manual adjustments", func(t *testing.T) {
		ev, err := NewTagEvent(goodID, TagActionAdjust, "", decimal.NewFromInt(2), decimal.NewFromInt(4), decimal.NewFromInt(6), userID)

		require.NoError(t, err)
		assert.Empty(t, ev.TagID)
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		ev, err := NewTagEvent(goodID, TagAction("BOGUS"), "TAG-002", decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(1), userID)

		require.Error(t, err)
		assert.Nil(t, ev)
	})
}

func TestTagEvent_LinkOrder(t *testing.T) {
	ev, err := NewTagEvent(uuid.New(), TagActionOut, "TAG-003", decimal.NewFromInt(-2), decimal.NewFromInt(5), decimal.NewFromInt(3), uuid.New())
	require.NoError(t, err)

	customerID, orderID, itemID := uuid.New(), uuid.New(), uuid.New()
	ev.LinkOrder(customerID, orderID, itemID)

	require.NotNil(t, ev.OrderItemID)
	assert.Equal(t, customerID, *ev.CustomerID)
	assert.Equal(t, orderID, *ev.OrderID)
	assert.Equal(t, itemID, *ev.OrderItemID)
}

func TestTagAction_IsValid(t *testing.T) {
	assert.True(t, TagActionIn.IsValid())
	assert.True(t, TagActionOut.IsValid())
	assert.True(t, TagActionAdjust.IsValid())
	assert.False(t, TagAction("SOMETHING").IsValid())
}

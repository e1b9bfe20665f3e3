package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFinishedGood(t *testing.T) {
	t.Run("creates finished good successfully", func(t *testing.T) {
		configID := uuid.New()
		good, err := NewFinishedGood(configID, decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, good.ID)
		assert.Equal(t, configID, good.ProductConfigID)
		assert.True(t, good.CurrentStock.IsZero())
		assert.True(t, good.RequiredQuantity.IsZero())
		assert.Equal(t, decimal.NewFromInt(10), good.Threshold)
	})

	t.Run("fails with nil product config ID", func(t *testing.T) {
		good, err := NewFinishedGood(uuid.Nil, decimal.Zero)

		require.Error(t, err)
		assert.Nil(t, good)
	})

	t.Run("fails with negative threshold", func(t *testing.T) {
		good, err := NewFinishedGood(uuid.New(), decimal.NewFromInt(-1))

		require.Error(t, err)
		assert.Nil(t, good)
	})
}

func TestFinishedGood_ApplyDelta(t *testing.T) {
	newGood := func(t *testing.T) *FinishedGood {
		good, err := NewFinishedGood(uuid.New(), decimal.Zero)
		require.NoError(t, err)
		return good
	}

	t.Run("positive delta increases stock", func(t *testing.T) {
		good := newGood(t)

		prev, curr, err := good.ApplyDelta(decimal.NewFromInt(5))

		require.NoError(t, err)
		assert.True(t, prev.IsZero())
		assert.Equal(t, decimal.NewFromInt(5), curr)
		assert.Equal(t, decimal.NewFromInt(5), good.CurrentStock)
	})

	t.Run("negative delta decreases stock", func(t *testing.T) {
		good := newGood(t)
		_, _, err := good.ApplyDelta(decimal.NewFromInt(10))
		require.NoError(t, err)

		prev, curr, err := good.ApplyDelta(decimal.NewFromInt(-4))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(10), prev)
		assert.Equal(t, decimal.NewFromInt(6), curr)
	})

	t.Run("rejects delta that would drive stock negative", func(t *testing.T) {
		good := newGood(t)
		_, _, err := good.ApplyDelta(decimal.NewFromInt(3))
		require.NoError(t, err)

		_, _, err = good.ApplyDelta(decimal.NewFromInt(-4))

		require.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, decimal.NewFromInt(3), good.CurrentStock, "stock must be unchanged")
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		good := newGood(t)

		_, _, err := good.ApplyDelta(decimal.Zero)

		require.Error(t, err)
	})

	t.Run("rejects fractional delta", func(t *testing.T) {
		good := newGood(t)

		_, _, err := good.ApplyDelta(decimal.NewFromFloat(1.5))

		require.Error(t, err)
		assert.True(t, good.CurrentStock.IsZero())
	})

	t.Run("increments version on each applied delta", func(t *testing.T) {
		good := newGood(t)
		v := good.Version

		_, _, err := good.ApplyDelta(decimal.NewFromInt(1))
		require.NoError(t, err)

		assert.Equal(t, v+1, good.Version)
	})
}

func TestFinishedGood_Shortfall(t *testing.T) {
	good, err := NewFinishedGood(uuid.New(), decimal.NewFromInt(10))
	require.NoError(t, err)

	t.Run("deficit when demand exceeds supply", func(t *testing.T) {
		good.CurrentStock = decimal.NewFromInt(5)
		good.InManufacturing = decimal.NewFromInt(2)
		require.NoError(t, good.SetRequiredQuantity(decimal.NewFromInt(20)))

		// (20 + 10) - (5 + 2) = 23
		assert.Equal(t, decimal.NewFromInt(23), good.Shortfall())
	})

	t.Run("surplus is negative", func(t *testing.T) {
		good.CurrentStock = decimal.NewFromInt(50)
		good.InManufacturing = decimal.Zero
		require.NoError(t, good.SetRequiredQuantity(decimal.NewFromInt(5)))

		// (5 + 10) - (50 + 0) = -35
		assert.Equal(t, decimal.NewFromInt(-35), good.Shortfall())
	})
}

func TestFinishedGood_SetInManufacturing(t *testing.T) {
	good, err := NewFinishedGood(uuid.New(), decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, good.SetInManufacturing(decimal.NewFromInt(7)))
	assert.Equal(t, decimal.NewFromInt(7), good.InManufacturing)

	assert.Error(t, good.SetInManufacturing(decimal.NewFromInt(-1)))
}

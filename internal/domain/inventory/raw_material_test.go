package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRawMaterial(t *testing.T) {
	t.Run("creates raw material successfully", func(t *testing.T) {
		mat, err := NewRawMaterial("Steel sheet", "kg", decimal.NewFromInt(100))

		require.NoError(t, err)
		assert.Equal(t, "Steel sheet", mat.Name)
		assert.Equal(t, "kg", mat.Unit)
		assert.Equal(t, decimal.NewFromInt(100), mat.MinimumStock)
		assert.True(t, mat.CurrentStock.IsZero())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		mat, err := NewRawMaterial("", "kg", decimal.Zero)

		require.Error(t, err)
		assert.Nil(t, mat)
	})

	t.Run("fails with empty unit", func(t *testing.T) {
		mat, err := NewRawMaterial("Steel sheet", "", decimal.Zero)

		require.Error(t, err)
		assert.Nil(t, mat)
	})
}

func TestRawMaterial_ApplyDelta(t *testing.T) {
	mat, err := NewRawMaterial("Resin", "kg", decimal.Zero)
	require.NoError(t, err)

	t.Run("accepts fractional quantities", func(t *testing.T) {
		prev, curr, err := mat.ApplyDelta(decimal.NewFromFloat(2.5))

		require.NoError(t, err)
		assert.True(t, prev.IsZero())
		assert.Equal(t, decimal.NewFromFloat(2.5), curr)
	})

	t.Run("rejects negative result", func(t *testing.T) {
		_, _, err := mat.ApplyDelta(decimal.NewFromInt(-3))

		require.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, decimal.NewFromFloat(2.5), mat.CurrentStock)
	})
}

func TestRawMaterial_Status(t *testing.T) {
	tests := []struct {
		name          string
		current       int64
		minimum       int64
		inProcurement int64
		required      int64
		want          MaterialStatus
	}{
		{"critical when shortfall positive", 10, 20, 0, 50, MaterialStatusCritical},
		{"low when stock at minimum and no shortfall", 20, 20, 50, 10, MaterialStatusLow},
		{"low when stock below minimum and no shortfall", 15, 20, 100, 10, MaterialStatusLow},
		{"good when stock above minimum and no shortfall", 100, 20, 0, 10, MaterialStatusGood},
		{"critical wins over low", 5, 20, 0, 100, MaterialStatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mat, err := NewRawMaterial("Steel", "kg", decimal.NewFromInt(tt.minimum))
			require.NoError(t, err)
			mat.CurrentStock = decimal.NewFromInt(tt.current)
			mat.InProcurement = decimal.NewFromInt(tt.inProcurement)
			require.NoError(t, mat.SetRequiredQuantity(decimal.NewFromInt(tt.required)))

			assert.Equal(t, tt.want, mat.Status())
		})
	}
}

func TestRawMaterial_Shortfall(t *testing.T) {
	mat, err := NewRawMaterial("Steel", "kg", decimal.NewFromInt(30))
	require.NoError(t, err)
	mat.CurrentStock = decimal.NewFromInt(40)
	mat.InProcurement = decimal.NewFromInt(25)
	require.NoError(t, mat.SetRequiredQuantity(decimal.NewFromInt(80)))

	// (80 + 30) - (40 + 25) = 45
	assert.Equal(t, decimal.NewFromInt(45), mat.Shortfall())
}

package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/shared"
)

func seedProductConfig(t *testing.T, repo *GormProductConfigRepository, category string, materials ...uuid.UUID) *catalog.ProductConfig {
	t.Helper()

	cfg, err := catalog.NewProductConfig(category, "Standard", "M", decimal.NewFromInt(1), decimal.NewFromInt(10))
	require.NoError(t, err)
	for _, m := range materials {
		require.NoError(t, cfg.AddMaterial(m, decimal.NewFromInt(2), "kg"))
	}
	require.NoError(t, repo.Save(context.Background(), cfg))
	return cfg
}

func TestGormProductConfigRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductConfigRepository(newTestDB(t))

	t.Run("round trips a configuration with its bill of materials", func(t *testing.T) {
		m1, m2 := uuid.New(), uuid.New()
		cfg := seedProductConfig(t, repo, "Chair", m1, m2)

		found, err := repo.FindByID(ctx, cfg.ID)
		require.NoError(t, err)
		assert.Equal(t, cfg.Code, found.Code)
		require.Len(t, found.Materials, 2)
		assert.Equal(t, m1, found.Materials[0].RawMaterialID)
		assert.Equal(t, m2, found.Materials[1].RawMaterialID)
		assert.True(t, found.Materials[0].QuantityPerUnit.Equal(decimal.NewFromInt(2)))
	})

	t.Run("finds by product code", func(t *testing.T) {
		cfg := seedProductConfig(t, repo, "Table")

		found, err := repo.FindByCode(ctx, cfg.Code)
		require.NoError(t, err)
		assert.Equal(t, cfg.ID, found.ID)
	})

	t.Run("finds multiple configurations by ID", func(t *testing.T) {
		a := seedProductConfig(t, repo, "Desk")
		b := seedProductConfig(t, repo, "Shelf")

		found, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("empty ID list yields an empty slice", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("returns ErrNotFound for a missing configuration", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByCode(ctx, "NO-SUCH-CODE")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductConfigRepository_ReplaceMaterials(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductConfigRepository(newTestDB(t))

	m1, m2, m3 := uuid.New(), uuid.New(), uuid.New()
	cfg := seedProductConfig(t, repo, "Cabinet", m1, m2)
	staleEdge := cfg.Materials[0].ID

	require.NoError(t, cfg.ReplaceMaterials([]catalog.MaterialRequirement{
		{RawMaterialID: m3, QuantityPerUnit: decimal.NewFromInt(5), Unit: "pcs"},
	}))
	require.NoError(t, repo.Save(ctx, cfg))

	found, err := repo.FindByID(ctx, cfg.ID)
	require.NoError(t, err)
	require.Len(t, found.Materials, 1)
	assert.Equal(t, m3, found.Materials[0].RawMaterialID)

	// the replaced edges are gone from the table, not just unlinked
	var count int64
	require.NoError(t, repo.db.Model(&catalog.MaterialRequirement{}).
		Where("id = ?", staleEdge).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGormProductConfigRepository_FindByRawMaterial(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductConfigRepository(newTestDB(t))

	shared1 := uuid.New()
	other := uuid.New()
	a := seedProductConfig(t, repo, "Bench", shared1)
	b := seedProductConfig(t, repo, "Stool", shared1, other)
	seedProductConfig(t, repo, "Lamp", other)

	found, err := repo.FindByRawMaterial(ctx, shared1)
	require.NoError(t, err)
	require.Len(t, found, 2)
	ids := []uuid.UUID{found[0].ID, found[1].ID}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)
}

func TestGormProductConfigRepository_FindActive(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductConfigRepository(newTestDB(t))

	active := seedProductConfig(t, repo, "Sofa")
	inactive := seedProductConfig(t, repo, "Futon")
	inactive.Deactivate()
	require.NoError(t, repo.Save(ctx, inactive))

	found, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, active.ID, found[0].ID)
}

func TestGormProductConfigRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductConfigRepository(newTestDB(t))

	t.Run("deletes the configuration and its bill of materials", func(t *testing.T) {
		cfg := seedProductConfig(t, repo, "Dresser", uuid.New())
		edgeID := cfg.Materials[0].ID

		require.NoError(t, repo.Delete(ctx, cfg.ID))

		_, err := repo.FindByID(ctx, cfg.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var count int64
		require.NoError(t, repo.db.Model(&catalog.MaterialRequirement{}).
			Where("id = ?", edgeID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("returns ErrNotFound for a missing configuration", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}

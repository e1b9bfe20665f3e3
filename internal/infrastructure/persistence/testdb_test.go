package persistence

import (
	"testing"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/orders"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory SQLite database with the full schema.
// SQLite is close enough for repository round trips; queries using
// Postgres-only operators are covered with sqlmock instead.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.ProductConfig{},
		&catalog.MaterialRequirement{},
		&inventory.FinishedGood{},
		&inventory.RawMaterial{},
		&inventory.TagEvent{},
		&orders.Order{},
		&orders.OrderItem{},
	))
	return db
}

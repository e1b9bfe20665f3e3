package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// ProductConfigRepository defines the interface for product configuration persistence
type ProductConfigRepository interface {
	// FindByID finds a configuration by its ID, materials preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*ProductConfig, error)

	// FindByCode finds a configuration by its generated product code
	FindByCode(ctx context.Context, code string) (*ProductConfig, error)

	// FindByIDs finds multiple configurations by their IDs, materials preloaded
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductConfig, error)

	// FindAll finds all configurations matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductConfig, error)

	// FindActive finds all active configurations, materials preloaded
	FindActive(ctx context.Context) ([]ProductConfig, error)

	// FindByRawMaterial finds all configurations whose bill of materials
	// references the given raw material
	FindByRawMaterial(ctx context.Context, rawMaterialID uuid.UUID) ([]ProductConfig, error)

	// Save creates or updates a configuration together with its materials
	Save(ctx context.Context, cfg *ProductConfig) error

	// Delete deletes a configuration
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts configurations matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

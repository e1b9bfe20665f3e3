package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// FinishedGoodRepository defines the interface for finished-good persistence
type FinishedGoodRepository interface {
	// FindByID finds a finished good by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*FinishedGood, error)

	// FindByProductConfig finds the finished good for a product configuration
	FindByProductConfig(ctx context.Context, productConfigID uuid.UUID) (*FinishedGood, error)

	// FindByProductConfigs finds finished goods for multiple configurations
	FindByProductConfigs(ctx context.Context, productConfigIDs []uuid.UUID) ([]FinishedGood, error)

	// FindAll finds all finished goods matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]FinishedGood, error)

	// Save creates or updates a finished good
	Save(ctx context.Context, good *FinishedGood) error

	// SaveWithLock saves with optimistic locking; returns
	// shared.ErrConcurrencyConflict when the stored version has moved on.
	SaveWithLock(ctx context.Context, good *FinishedGood) error

	// Count counts finished goods matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// RawMaterialRepository defines the interface for raw-material persistence
type RawMaterialRepository interface {
	// FindByID finds a raw material by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RawMaterial, error)

	// FindByIDs finds multiple raw materials by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]RawMaterial, error)

	// FindAll finds all raw materials matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]RawMaterial, error)

	// Save creates or updates a raw material
	Save(ctx context.Context, material *RawMaterial) error

	// SaveWithLock saves with optimistic locking
	SaveWithLock(ctx context.Context, material *RawMaterial) error

	// Count counts raw materials matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// TagEventFilter narrows audit-trail queries
type TagEventFilter struct {
	TagID          string
	FinishedGoodID *uuid.UUID
	UserID         *uuid.UUID
	Action         TagAction
	Page           int
	PageSize       int
}

// TagEventRepository defines the interface for the append-only audit trail
type TagEventRepository interface {
	// Append writes one audit record; records are never updated or deleted
	Append(ctx context.Context, event *TagEvent) error

	// ExistsTagIn reports whether a tag ID has already been consumed by a
	// tag-in operation
	ExistsTagIn(ctx context.Context, tagID string) (bool, error)

	// FindByFinishedGood returns the audit trail for one finished good in
	// chronological order
	FindByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) ([]TagEvent, error)

	// Search returns audit records matching the filter, newest first
	Search(ctx context.Context, filter TagEventFilter) ([]TagEvent, int64, error)

	// CountByFinishedGood counts audit records for one finished good
	CountByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) (int64, error)
}

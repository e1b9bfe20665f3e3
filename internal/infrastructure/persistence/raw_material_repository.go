package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRawMaterialRepository implements RawMaterialRepository using GORM
type GormRawMaterialRepository struct {
	db *gorm.DB
}

// NewGormRawMaterialRepository creates a new GormRawMaterialRepository
func NewGormRawMaterialRepository(db *gorm.DB) *GormRawMaterialRepository {
	return &GormRawMaterialRepository{db: db}
}

// FindByID finds a raw material by its ID
func (r *GormRawMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.RawMaterial, error) {
	var material inventory.RawMaterial
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindByIDs finds multiple raw materials by their IDs
func (r *GormRawMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.RawMaterial, error) {
	if len(ids) == 0 {
		return []inventory.RawMaterial{}, nil
	}

	var materials []inventory.RawMaterial
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindAll finds all raw materials matching the filter
func (r *GormRawMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.RawMaterial, error) {
	var materials []inventory.RawMaterial
	query := applyFilter(
		r.db.WithContext(ctx).Model(&inventory.RawMaterial{}),
		filter, RawMaterialSortFields,
	)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// Save creates or updates a raw material
func (r *GormRawMaterialRepository) Save(ctx context.Context, material *inventory.RawMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormRawMaterialRepository) SaveWithLock(ctx context.Context, material *inventory.RawMaterial) error {
	result := r.db.WithContext(ctx).
		Model(material).
		Where("id = ? AND version = ?", material.ID, material.Version-1).
		Updates(map[string]interface{}{
			"current_stock":     material.CurrentStock,
			"minimum_stock":     material.MinimumStock,
			"in_procurement":    material.InProcurement,
			"required_quantity": material.RequiredQuantity,
			"version":           material.Version,
			"updated_at":        material.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts raw materials matching the filter
func (r *GormRawMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&inventory.RawMaterial{}),
		filter, RawMaterialSortFields,
	)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormRawMaterialRepository implements RawMaterialRepository
var _ inventory.RawMaterialRepository = (*GormRawMaterialRepository)(nil)

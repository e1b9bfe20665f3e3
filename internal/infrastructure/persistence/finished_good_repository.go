package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormFinishedGoodRepository implements FinishedGoodRepository using GORM
type GormFinishedGoodRepository struct {
	db *gorm.DB
}

// NewGormFinishedGoodRepository creates a new GormFinishedGoodRepository
func NewGormFinishedGoodRepository(db *gorm.DB) *GormFinishedGoodRepository {
	return &GormFinishedGoodRepository{db: db}
}

// FindByID finds a finished good by its ID
func (r *GormFinishedGoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.FinishedGood, error) {
	var good inventory.FinishedGood
	if err := r.db.WithContext(ctx).First(&good, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindByProductConfig finds the finished good for a product configuration
func (r *GormFinishedGoodRepository) FindByProductConfig(ctx context.Context, productConfigID uuid.UUID) (*inventory.FinishedGood, error) {
	var good inventory.FinishedGood
	if err := r.db.WithContext(ctx).
		Where("product_config_id = ?", productConfigID).
		First(&good).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindByProductConfigs finds finished goods for multiple configurations
func (r *GormFinishedGoodRepository) FindByProductConfigs(ctx context.Context, productConfigIDs []uuid.UUID) ([]inventory.FinishedGood, error) {
	if len(productConfigIDs) == 0 {
		return []inventory.FinishedGood{}, nil
	}

	var goods []inventory.FinishedGood
	if err := r.db.WithContext(ctx).
		Where("product_config_id IN ?", productConfigIDs).
		Find(&goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

// FindAll finds all finished goods matching the filter
func (r *GormFinishedGoodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.FinishedGood, error) {
	var goods []inventory.FinishedGood
	query := applyFilter(
		r.db.WithContext(ctx).Model(&inventory.FinishedGood{}),
		filter, FinishedGoodSortFields,
	)

	if err := query.Find(&goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

// Save creates or updates a finished good
func (r *GormFinishedGoodRepository) Save(ctx context.Context, good *inventory.FinishedGood) error {
	return r.db.WithContext(ctx).Save(good).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormFinishedGoodRepository) SaveWithLock(ctx context.Context, good *inventory.FinishedGood) error {
	result := r.db.WithContext(ctx).
		Model(good).
		Where("id = ? AND version = ?", good.ID, good.Version-1).
		Updates(map[string]interface{}{
			"current_stock":     good.CurrentStock,
			"in_manufacturing":  good.InManufacturing,
			"required_quantity": good.RequiredQuantity,
			"threshold":         good.Threshold,
			"version":           good.Version,
			"updated_at":        good.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts finished goods matching the filter
func (r *GormFinishedGoodRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&inventory.FinishedGood{}),
		filter, FinishedGoodSortFields,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormFinishedGoodRepository implements FinishedGoodRepository
var _ inventory.FinishedGoodRepository = (*GormFinishedGoodRepository)(nil)

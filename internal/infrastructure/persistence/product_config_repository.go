package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductConfigRepository implements ProductConfigRepository using GORM
type GormProductConfigRepository struct {
	db *gorm.DB
}

// NewGormProductConfigRepository creates a new GormProductConfigRepository
func NewGormProductConfigRepository(db *gorm.DB) *GormProductConfigRepository {
	return &GormProductConfigRepository{db: db}
}

// FindByID finds a configuration by its ID, materials preloaded
func (r *GormProductConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductConfig, error) {
	var cfg catalog.ProductConfig
	if err := r.db.WithContext(ctx).
		Preload("Materials", materialOrdering).
		First(&cfg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// FindByCode finds a configuration by its generated product code
func (r *GormProductConfigRepository) FindByCode(ctx context.Context, code string) (*catalog.ProductConfig, error) {
	var cfg catalog.ProductConfig
	if err := r.db.WithContext(ctx).
		Preload("Materials", materialOrdering).
		Where("code = ?", code).
		First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// FindByIDs finds multiple configurations by their IDs, materials preloaded
func (r *GormProductConfigRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductConfig, error) {
	if len(ids) == 0 {
		return []catalog.ProductConfig{}, nil
	}

	var configs []catalog.ProductConfig
	if err := r.db.WithContext(ctx).
		Preload("Materials", materialOrdering).
		Where("id IN ?", ids).
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// FindAll finds all configurations matching the filter
func (r *GormProductConfigRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ProductConfig, error) {
	var configs []catalog.ProductConfig
	query := applyFilter(
		r.db.WithContext(ctx).Model(&catalog.ProductConfig{}),
		filter, ProductConfigSortFields,
	).Preload("Materials", materialOrdering)
	if filter.Search != "" {
		query = query.Where("code ILIKE ? OR category ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if err := query.Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// FindActive finds all active configurations, materials preloaded
func (r *GormProductConfigRepository) FindActive(ctx context.Context) ([]catalog.ProductConfig, error) {
	var configs []catalog.ProductConfig
	if err := r.db.WithContext(ctx).
		Preload("Materials", materialOrdering).
		Where("active = ?", true).
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// FindByRawMaterial finds all configurations whose bill of materials
// references the given raw material
func (r *GormProductConfigRepository) FindByRawMaterial(ctx context.Context, rawMaterialID uuid.UUID) ([]catalog.ProductConfig, error) {
	var configs []catalog.ProductConfig
	if err := r.db.WithContext(ctx).
		Preload("Materials", materialOrdering).
		Where("id IN (?)", r.db.Model(&catalog.MaterialRequirement{}).
			Select("product_config_id").
			Where("raw_material_id = ?", rawMaterialID)).
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// Save creates or updates a configuration together with its materials.
// Removed bill-of-materials edges are deleted so the rows mirror the
// in-memory state.
func (r *GormProductConfigRepository) Save(ctx context.Context, cfg *catalog.ProductConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(cfg.Materials))
		for i := range cfg.Materials {
			keep = append(keep, cfg.Materials[i].ID)
		}

		cleanup := tx.Where("product_config_id = ?", cfg.ID)
		if len(keep) > 0 {
			cleanup = cleanup.Where("id NOT IN ?", keep)
		}
		if err := cleanup.Delete(&catalog.MaterialRequirement{}).Error; err != nil {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(cfg).Error
	})
}

// Delete deletes a configuration and its bill of materials
func (r *GormProductConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_config_id = ?", id).Delete(&catalog.MaterialRequirement{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.ProductConfig{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts configurations matching the filter
func (r *GormProductConfigRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&catalog.ProductConfig{}),
		filter, ProductConfigSortFields,
	)
	if filter.Search != "" {
		query = query.Where("code ILIKE ? OR category ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// materialOrdering keeps preloaded bill-of-materials edges in declared order
func materialOrdering(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Ensure GormProductConfigRepository implements ProductConfigRepository
var _ catalog.ProductConfigRepository = (*GormProductConfigRepository)(nil)

package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/orders"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// CatalogService administers product configurations and raw materials. Every
// configuration owns a finished-good stock record, created together with it;
// threshold edits are mirrored onto that record so the shortfall formula
// reads one row.
type CatalogService struct {
	configs   catalog.ProductConfigRepository
	goods     inventory.FinishedGoodRepository
	materials inventory.RawMaterialRepository
	orders    orders.OrderRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	configs catalog.ProductConfigRepository,
	goods inventory.FinishedGoodRepository,
	materials inventory.RawMaterialRepository,
	orderRepo orders.OrderRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		configs:   configs,
		goods:     goods,
		materials: materials,
		orders:    orderRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateProductConfig defines a new SKU with its bill of materials and
// creates the finished-good stock record alongside it.
func (s *CatalogService) CreateProductConfig(ctx context.Context, input CreateProductConfigInput) (*catalog.ProductConfig, error) {
	if err := s.requireMaterials(ctx, input.Materials); err != nil {
		return nil, err
	}

	cfg, err := catalog.NewProductConfig(input.Category, input.Subcategory, input.Size, input.Weight, input.Threshold)
	if err != nil {
		return nil, err
	}
	for _, m := range input.Materials {
		if err := cfg.AddMaterial(m.RawMaterialID, m.QuantityPerUnit, m.Unit); err != nil {
			return nil, err
		}
	}

	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}

	good, err := inventory.NewFinishedGood(cfg.ID, cfg.Threshold)
	if err != nil {
		return nil, err
	}
	if err := s.goods.Save(ctx, good); err != nil {
		return nil, err
	}

	s.publishFrom(ctx, cfg)
	s.logger.Info("product configuration created",
		zap.String("product_config_id", cfg.ID.String()),
		zap.String("code", cfg.Code),
		zap.Int("materials", len(cfg.Materials)))
	return cfg, nil
}

// GetProductConfig returns a configuration with its bill of materials
func (s *CatalogService) GetProductConfig(ctx context.Context, id uuid.UUID) (*catalog.ProductConfig, error) {
	return s.configs.FindByID(ctx, id)
}

// GetProductConfigByCode returns a configuration by its generated code
func (s *CatalogService) GetProductConfigByCode(ctx context.Context, code string) (*catalog.ProductConfig, error) {
	return s.configs.FindByCode(ctx, code)
}

// ListProductConfigs returns configurations matching the filter, paginated
func (s *CatalogService) ListProductConfigs(ctx context.Context, filter shared.Filter) (*shared.Paginated[catalog.ProductConfig], error) {
	items, err := s.configs.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.configs.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// SetThreshold edits the safety-stock threshold and mirrors it onto the
// finished-good record.
func (s *CatalogService) SetThreshold(ctx context.Context, id uuid.UUID, threshold decimal.Decimal) (*catalog.ProductConfig, error) {
	cfg, err := s.configs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cfg.SetThreshold(threshold); err != nil {
		return nil, err
	}
	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}

	good, err := s.goods.FindByProductConfig(ctx, id)
	if err == nil {
		if err := good.SetThreshold(threshold); err != nil {
			return nil, err
		}
		if err := s.goods.SaveWithLock(ctx, good); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	s.publishFrom(ctx, cfg)
	return cfg, nil
}

// ReplaceMaterials swaps the whole bill of materials of a configuration
func (s *CatalogService) ReplaceMaterials(ctx context.Context, id uuid.UUID, edges []MaterialInput) (*catalog.ProductConfig, error) {
	if err := s.requireMaterials(ctx, edges); err != nil {
		return nil, err
	}

	cfg, err := s.configs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	requirements := make([]catalog.MaterialRequirement, 0, len(edges))
	for _, e := range edges {
		requirements = append(requirements, catalog.MaterialRequirement{
			RawMaterialID:   e.RawMaterialID,
			QuantityPerUnit: e.QuantityPerUnit,
			Unit:            e.Unit,
		})
	}
	if err := cfg.ReplaceMaterials(requirements); err != nil {
		return nil, err
	}
	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.publishFrom(ctx, cfg)
	return cfg, nil
}

// SetActive enables or disables a configuration for new orders
func (s *CatalogService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*catalog.ProductConfig, error) {
	cfg, err := s.configs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		cfg.Activate()
	} else {
		cfg.Deactivate()
	}
	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DeleteProductConfig removes a configuration that no open order references.
// Configurations with outstanding demand keep their history.
func (s *CatalogService) DeleteProductConfig(ctx context.Context, id uuid.UUID) error {
	outstanding, err := s.orders.SumOutstandingByProductConfig(ctx, id)
	if err != nil {
		return err
	}
	if outstanding.IsPositive() {
		return shared.NewDomainError("CONFIG_IN_USE", "Configuration is referenced by open orders")
	}
	if err := s.configs.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product configuration deleted", zap.String("product_config_id", id.String()))
	return nil
}

// CreateRawMaterial registers a new raw material
func (s *CatalogService) CreateRawMaterial(ctx context.Context, input CreateRawMaterialInput) (*inventory.RawMaterial, error) {
	material, err := inventory.NewRawMaterial(input.Name, input.Unit, input.MinimumStock)
	if err != nil {
		return nil, err
	}
	if err := s.materials.Save(ctx, material); err != nil {
		return nil, err
	}

	s.logger.Info("raw material created",
		zap.String("raw_material_id", material.ID.String()),
		zap.String("name", material.Name))
	return material, nil
}

// GetRawMaterial returns a raw material with its derived figures
func (s *CatalogService) GetRawMaterial(ctx context.Context, id uuid.UUID) (*inventory.RawMaterial, error) {
	return s.materials.FindByID(ctx, id)
}

// ListRawMaterials returns raw materials matching the filter, paginated
func (s *CatalogService) ListRawMaterials(ctx context.Context, filter shared.Filter) (*shared.Paginated[inventory.RawMaterial], error) {
	items, err := s.materials.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.materials.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// SetMinimumStock edits the minimum-stock buffer of a raw material
func (s *CatalogService) SetMinimumStock(ctx context.Context, id uuid.UUID, minimum decimal.Decimal) (*inventory.RawMaterial, error) {
	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := material.SetMinimumStock(minimum); err != nil {
		return nil, err
	}
	if err := s.materials.SaveWithLock(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// requireMaterials verifies that every referenced raw material exists
func (s *CatalogService) requireMaterials(ctx context.Context, edges []MaterialInput) error {
	if len(edges) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.RawMaterialID)
	}
	found, err := s.materials.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for i := range found {
		known[found[i].ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return shared.NewDomainError("UNKNOWN_MATERIAL", "Raw material does not exist")
		}
	}
	return nil
}

func (s *CatalogService) publishFrom(ctx context.Context, cfg *catalog.ProductConfig) {
	events := cfg.GetDomainEvents()
	cfg.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err), zap.Int("count", len(events)))
	}
}

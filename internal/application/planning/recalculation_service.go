package planning

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/orders"
	"github.com/stockpilot/backend/internal/domain/planning"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// maxConflictRetries bounds replays after optimistic lock conflicts.
const maxConflictRetries = 3

// ScopeType selects how much of the requirement graph a recalculation covers
type ScopeType string

const (
	// ScopeOrder recomputes the configurations referenced by one order
	ScopeOrder ScopeType = "order"
	// ScopeProductConfig recomputes a set of configurations
	ScopeProductConfig ScopeType = "product_config"
	// ScopeFull recomputes every finished good and raw material
	ScopeFull ScopeType = "full"
)

// Scope is a recalculation request
type Scope struct {
	Type             ScopeType
	OrderID          uuid.UUID
	ProductConfigIDs []uuid.UUID
}

// RecalculationService derives requirement figures from current state:
// outstanding order demand per configuration, then the bill-of-materials
// cascade onto raw materials. Every run recomputes from scratch, so running
// it twice in a row is a no-op; triggers may safely fire more than once.
//
// The service writes required_quantity only. Stock levels belong to the
// ledger and are never touched here.
type RecalculationService struct {
	goods     inventory.FinishedGoodRepository
	materials inventory.RawMaterialRepository
	configs   catalog.ProductConfigRepository
	orders    orders.OrderRepository
	logger    *zap.Logger
}

// NewRecalculationService creates a new RecalculationService
func NewRecalculationService(
	goods inventory.FinishedGoodRepository,
	materials inventory.RawMaterialRepository,
	configs catalog.ProductConfigRepository,
	orderRepo orders.OrderRepository,
	logger *zap.Logger,
) *RecalculationService {
	return &RecalculationService{
		goods:     goods,
		materials: materials,
		configs:   configs,
		orders:    orderRepo,
		logger:    logger,
	}
}

// Recalculate dispatches on the scope type
func (s *RecalculationService) Recalculate(ctx context.Context, scope Scope) error {
	switch scope.Type {
	case ScopeOrder:
		return s.RecalculateOrder(ctx, scope.OrderID)
	case ScopeProductConfig:
		return s.RecalculateProductConfigs(ctx, scope.ProductConfigIDs)
	case ScopeFull:
		return s.RecalculateFull(ctx)
	default:
		return shared.NewDomainError("INVALID_SCOPE", "Unknown recalculation scope")
	}
}

// RecalculateOrder recomputes the configurations referenced by one order.
// A deleted order is not an error: its configurations are enqueued directly
// by the deletion trigger.
func (s *RecalculationService) RecalculateOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Debug("order vanished before recalculation", zap.String("order_id", orderID.String()))
		return nil
	}
	if err != nil {
		return err
	}
	return s.RecalculateProductConfigs(ctx, order.ProductConfigIDs())
}

// RecalculateProductConfigs recomputes the required quantity of the given
// configurations from outstanding order demand, then cascades onto every raw
// material their bills of materials reference.
func (s *RecalculationService) RecalculateProductConfigs(ctx context.Context, configIDs []uuid.UUID) error {
	affectedMaterials := make(map[uuid.UUID]struct{})
	seen := make(map[uuid.UUID]bool, len(configIDs))

	for _, configID := range configIDs {
		if seen[configID] {
			continue
		}
		seen[configID] = true

		cfg, err := s.configs.FindByID(ctx, configID)
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("configuration vanished before recalculation", zap.String("product_config_id", configID.String()))
			continue
		}
		if err != nil {
			return err
		}

		required, err := s.orders.SumOutstandingByProductConfig(ctx, configID)
		if err != nil {
			return err
		}

		if err := s.storeFinishedGoodRequirement(ctx, cfg, required); err != nil {
			return err
		}

		for _, m := range cfg.Materials {
			affectedMaterials[m.RawMaterialID] = struct{}{}
		}
	}

	materialIDs := make([]uuid.UUID, 0, len(affectedMaterials))
	for id := range affectedMaterials {
		materialIDs = append(materialIDs, id)
	}
	return s.RecalculateMaterials(ctx, materialIDs)
}

// RecalculateMaterials recomputes the cascaded requirement of the given raw
// materials. A material referenced by a bill of materials but missing from
// the store fails the run with ErrInconsistentBOM; the trigger is retried,
// never dropped.
func (s *RecalculationService) RecalculateMaterials(ctx context.Context, materialIDs []uuid.UUID) error {
	for _, materialID := range materialIDs {
		configs, err := s.configs.FindByRawMaterial(ctx, materialID)
		if err != nil {
			return err
		}

		shortfalls, err := s.finishedGoodShortfalls(ctx, configs)
		if err != nil {
			return err
		}
		requirement := planning.CascadedRequirement(configs, shortfalls, materialID)

		err = s.withConflictRetry(ctx, func() error {
			material, err := s.materials.FindByID(ctx, materialID)
			if errors.Is(err, shared.ErrNotFound) {
				if len(configs) == 0 {
					// Flagged after a bill-of-materials edit but deleted
					// since; there is nothing left to reconcile.
					s.logger.Debug("material vanished before recalculation", zap.String("raw_material_id", materialID.String()))
					return nil
				}
				return fmt.Errorf("%w: raw material %s", shared.ErrInconsistentBOM, materialID)
			}
			if err != nil {
				return err
			}
			if material.RequiredQuantity.Equal(requirement) {
				return nil
			}
			if err := material.SetRequiredQuantity(requirement); err != nil {
				return err
			}
			return s.materials.SaveWithLock(ctx, material)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RecalculateFull recomputes every finished good from outstanding demand and
// every raw material from the cascade, reconciling whatever incremental runs
// may have missed.
func (s *RecalculationService) RecalculateFull(ctx context.Context) error {
	goods, err := s.goods.FindAll(ctx, shared.Filter{})
	if err != nil {
		return err
	}
	for i := range goods {
		cfg, err := s.configs.FindByID(ctx, goods[i].ProductConfigID)
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("finished good without configuration", zap.String("finished_good_id", goods[i].ID.String()))
			continue
		}
		if err != nil {
			return err
		}
		required, err := s.orders.SumOutstandingByProductConfig(ctx, cfg.ID)
		if err != nil {
			return err
		}
		if err := s.storeFinishedGoodRequirement(ctx, cfg, required); err != nil {
			return err
		}
	}

	materials, err := s.materials.FindAll(ctx, shared.Filter{})
	if err != nil {
		return err
	}
	materialIDs := make([]uuid.UUID, 0, len(materials))
	for i := range materials {
		materialIDs = append(materialIDs, materials[i].ID)
	}
	if err := s.RecalculateMaterials(ctx, materialIDs); err != nil {
		return err
	}

	s.logger.Info("full recalculation completed",
		zap.Int("finished_goods", len(goods)),
		zap.Int("raw_materials", len(materials)))
	return nil
}

// storeFinishedGoodRequirement persists the derived requirement, creating the
// stock record on first demand for a configuration that never saw one.
func (s *RecalculationService) storeFinishedGoodRequirement(ctx context.Context, cfg *catalog.ProductConfig, required decimal.Decimal) error {
	return s.withConflictRetry(ctx, func() error {
		good, err := s.goods.FindByProductConfig(ctx, cfg.ID)
		if errors.Is(err, shared.ErrNotFound) {
			good, err = inventory.NewFinishedGood(cfg.ID, cfg.Threshold)
			if err != nil {
				return err
			}
			if err := good.SetRequiredQuantity(required); err != nil {
				return err
			}
			return s.goods.Save(ctx, good)
		}
		if err != nil {
			return err
		}
		if good.RequiredQuantity.Equal(required) {
			return nil
		}
		if err := good.SetRequiredQuantity(required); err != nil {
			return err
		}
		return s.goods.SaveWithLock(ctx, good)
	})
}

// finishedGoodShortfalls loads the finished goods behind the configurations
// and returns their shortfall figures keyed by configuration ID. A missing
// stock record means no demand was ever derived; it contributes zero.
func (s *RecalculationService) finishedGoodShortfalls(ctx context.Context, configs []catalog.ProductConfig) (map[uuid.UUID]decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(configs))
	for i := range configs {
		ids = append(ids, configs[i].ID)
	}
	goods, err := s.goods.FindByProductConfigs(ctx, ids)
	if err != nil {
		return nil, err
	}

	shortfalls := make(map[uuid.UUID]decimal.Decimal, len(goods))
	for i := range goods {
		shortfalls[goods[i].ProductConfigID] = goods[i].Shortfall()
	}
	return shortfalls, nil
}

func (s *RecalculationService) withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = fn()
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		s.logger.Warn("recalculation hit concurrent writer, retrying", zap.Int("attempt", attempt))
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

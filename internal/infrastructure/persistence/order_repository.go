package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/orders"
	"github.com/stockpilot/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID, items preloaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	var order orders.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrdering).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds an order by its number, items preloaded
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*orders.Order, error) {
	var order orders.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrdering).
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByItemID finds the order owning an item, items preloaded
func (r *GormOrderRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) (*orders.Order, error) {
	var item orders.OrderItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, item.OrderID)
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]orders.Order, error) {
	var result []orders.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&orders.Order{}),
		filter, OrderSortFields,
	).Preload("Items", itemOrdering)
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindOpenByProductConfig finds orders with at least one non-delivered item
// referencing the configuration
func (r *GormOrderRepository) FindOpenByProductConfig(ctx context.Context, productConfigID uuid.UUID) ([]orders.Order, error) {
	var result []orders.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrdering).
		Where("id IN (?)", r.db.Model(&orders.OrderItem{}).
			Select("order_id").
			Where("product_config_id = ? AND status <> ?", productConfigID, orders.ItemStatusDelivered)).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Save creates or updates an order together with its items. Items removed
// from the aggregate are deleted so the rows mirror the in-memory state.
func (r *GormOrderRepository) Save(ctx context.Context, order *orders.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(order.Items))
		for i := range order.Items {
			keep = append(keep, order.Items[i].ID)
		}

		cleanup := tx.Where("order_id = ?", order.ID)
		if len(keep) > 0 {
			cleanup = cleanup.Where("id NOT IN ?", keep)
		}
		if err := cleanup.Delete(&orders.OrderItem{}).Error; err != nil {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
	})
}

// Delete deletes an order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orders.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orders.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&orders.Order{}),
		filter, OrderSortFields,
	)
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumOutstandingByProductConfig sums (quantity - fulfilled_quantity) over all
// non-delivered items referencing the configuration
func (r *GormOrderRepository) SumOutstandingByProductConfig(ctx context.Context, productConfigID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&orders.OrderItem{}).
		Select("COALESCE(SUM(quantity - fulfilled_quantity), 0) as total").
		Where("product_config_id = ? AND status <> ?", productConfigID, orders.ItemStatusDelivered).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// itemOrdering keeps preloaded items in their declared position
func itemOrdering(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Ensure GormOrderRepository implements OrderRepository
var _ orders.OrderRepository = (*GormOrderRepository)(nil)

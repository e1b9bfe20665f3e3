package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID, items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its number, items preloaded
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByItemID finds the order owning an item, items preloaded
	FindByItemID(ctx context.Context, itemID uuid.UUID) (*Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindOpenByProductConfig finds orders with at least one non-delivered
	// item referencing the configuration
	FindOpenByProductConfig(ctx context.Context, productConfigID uuid.UUID) ([]Order, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumOutstandingByProductConfig sums (quantity - fulfilled_quantity)
	// over all non-delivered items referencing the configuration
	SumOutstandingByProductConfig(ctx context.Context, productConfigID uuid.UUID) (decimal.Decimal, error)
}

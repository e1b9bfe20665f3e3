package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/orders"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// OrderService manages customer orders and their line items. Fulfillment is
// not booked here; it only moves through tag-out operations on the stock
// ledger.
type OrderService struct {
	orderRepo  orders.OrderRepository
	configRepo catalog.ProductConfigRepository
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo orders.OrderRepository, configRepo catalog.ProductConfigRepository, publisher shared.EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		configRepo: configRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateOrder places a new order with its initial line items
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*orders.Order, error) {
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Order needs at least one item")
	}

	existing, err := s.orderRepo.FindByOrderNumber(ctx, input.OrderNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_ORDER_NUMBER", "Order number is already in use")
	}

	configIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		configIDs = append(configIDs, item.ProductConfigID)
	}
	if err := s.requireActiveConfigs(ctx, configIDs); err != nil {
		return nil, err
	}

	order, err := orders.NewOrder(input.OrderNumber, input.CustomerID)
	if err != nil {
		return nil, err
	}
	order.DueDate = input.DueDate
	order.Remark = input.Remark

	for _, item := range input.Items {
		if _, err := order.AddItem(item.ProductConfigID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishFrom(ctx, order)
	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)))
	return order, nil
}

// GetOrder returns an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// GetOrderByNumber returns an order by its number
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*orders.Order, error) {
	return s.orderRepo.FindByOrderNumber(ctx, orderNumber)
}

// ListOrders returns orders matching the filter, paginated
func (s *OrderService) ListOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[orders.Order], error) {
	items, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateOrder edits the order header
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*orders.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DueDate != nil {
		order.DueDate = input.DueDate
	}
	if input.Remark != nil {
		order.Remark = *input.Remark
	}
	order.IncrementVersion()

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem appends a line item to an existing order
func (s *OrderService) AddItem(ctx context.Context, orderID, productConfigID uuid.UUID, quantity decimal.Decimal) (*orders.Order, error) {
	if err := s.requireActiveConfigs(ctx, []uuid.UUID{productConfigID}); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := order.AddItem(productConfigID, quantity); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishFrom(ctx, order)
	return order, nil
}

// UpdateItemQuantity changes the ordered quantity of a line item
func (s *OrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity decimal.Decimal) (*orders.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishFrom(ctx, order)
	return order, nil
}

// RemoveItem deletes an unfulfilled line item
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*orders.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishFrom(ctx, order)
	return order, nil
}

// SetItemReadiness records the externally reported manufacturing state of an item
func (s *OrderService) SetItemReadiness(ctx context.Context, orderID, itemID uuid.UUID, readiness orders.ReadinessSignal) (*orders.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.SetItemReadiness(itemID, readiness); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishFrom(ctx, order)
	return order, nil
}

// MarkItemDelivered transitions a fully fulfilled item to delivered
func (s *OrderService) MarkItemDelivered(ctx context.Context, orderID, itemID uuid.UUID) (*orders.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.MarkItemDelivered(itemID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishFrom(ctx, order)
	return order, nil
}

// DeleteOrder removes an order that has no recorded fulfillment. Orders with
// tagged-out units are part of the audit history and cannot be deleted.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	for _, item := range order.Items {
		if item.HasFulfillment() {
			return shared.NewDomainError("ORDER_FULFILLED", "Cannot delete an order with recorded fulfillment")
		}
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, orders.NewOrderDeletedEvent(order))
	s.logger.Info("order deleted",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber))
	return nil
}

// requireActiveConfigs verifies that every referenced configuration exists
// and is accepting orders.
func (s *OrderService) requireActiveConfigs(ctx context.Context, ids []uuid.UUID) error {
	configs, err := s.configRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*catalog.ProductConfig, len(configs))
	for i := range configs {
		byID[configs[i].ID] = &configs[i]
	}
	for _, id := range ids {
		cfg, ok := byID[id]
		if !ok {
			return shared.NewDomainError("UNKNOWN_PRODUCT_CONFIG", "Product configuration does not exist")
		}
		if !cfg.Active {
			return shared.NewDomainError("INACTIVE_PRODUCT_CONFIG", "Product configuration is not accepting orders")
		}
	}
	return nil
}

func (s *OrderService) publishFrom(ctx context.Context, order *orders.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	s.publish(ctx, events...)
}

func (s *OrderService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err), zap.Int("count", len(events)))
	}
}

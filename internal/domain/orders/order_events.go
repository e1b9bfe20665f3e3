package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderItemsChanged  = "OrderItemsChanged"
	EventTypeOrderItemFulfilled = "OrderItemFulfilled"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderDeleted       = "OrderDeleted"
)

// OrderCreatedEvent is raised when a new order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID   `json:"order_id"`
	OrderNumber      string      `json:"order_number"`
	ProductConfigIDs []uuid.UUID `json:"product_config_ids"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:          order.ID,
		OrderNumber:      order.OrderNumber,
		ProductConfigIDs: order.ProductConfigIDs(),
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderItemsChangedEvent is raised when the item set or an item's quantity,
// readiness, or delivery state changes. It carries the configurations whose
// requirement figures must be re-derived.
type OrderItemsChangedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID   `json:"order_id"`
	ProductConfigIDs []uuid.UUID `json:"product_config_ids"`
}

// NewOrderItemsChangedEvent creates a new OrderItemsChangedEvent
func NewOrderItemsChangedEvent(order *Order) *OrderItemsChangedEvent {
	return &OrderItemsChangedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeOrderItemsChanged, AggregateTypeOrder, order.ID),
		OrderID:          order.ID,
		ProductConfigIDs: order.ProductConfigIDs(),
	}
}

// EventType returns the event type name
func (e *OrderItemsChangedEvent) EventType() string {
	return EventTypeOrderItemsChanged
}

// OrderItemFulfilledEvent is raised when tagged-out units are booked against
// an item.
type OrderItemFulfilledEvent struct {
	shared.BaseDomainEvent
	OrderID           uuid.UUID       `json:"order_id"`
	OrderItemID       uuid.UUID       `json:"order_item_id"`
	ProductConfigID   uuid.UUID       `json:"product_config_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	ItemStatus        ItemStatus      `json:"item_status"`
}

// NewOrderItemFulfilledEvent creates a new OrderItemFulfilledEvent
func NewOrderItemFulfilledEvent(order *Order, item *OrderItem, quantity decimal.Decimal) *OrderItemFulfilledEvent {
	return &OrderItemFulfilledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeOrderItemFulfilled, AggregateTypeOrder, order.ID),
		OrderID:           order.ID,
		OrderItemID:       item.ID,
		ProductConfigID:   item.ProductConfigID,
		Quantity:          quantity,
		FulfilledQuantity: item.FulfilledQuantity,
		ItemStatus:        item.Status,
	}
}

// EventType returns the event type name
func (e *OrderItemFulfilledEvent) EventType() string {
	return EventTypeOrderItemFulfilled
}

// OrderStatusChangedEvent is raised when the derived aggregate status moves
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID   `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

// OrderDeletedEvent is raised when an order is removed; its configurations
// lose the corresponding demand.
type OrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID   `json:"order_id"`
	ProductConfigIDs []uuid.UUID `json:"product_config_ids"`
}

// NewOrderDeletedEvent creates a new OrderDeletedEvent
func NewOrderDeletedEvent(order *Order) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeOrderDeleted, AggregateTypeOrder, order.ID),
		OrderID:          order.ID,
		ProductConfigIDs: order.ProductConfigIDs(),
	}
}

// EventType returns the event type name
func (e *OrderDeletedEvent) EventType() string {
	return EventTypeOrderDeleted
}

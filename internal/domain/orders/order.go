package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// OrderItem is a line item of an Order. FulfilledQuantity only moves through
// tag-out operations; it never exceeds Quantity.
type OrderItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductConfigID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FulfilledQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Readiness         ReadinessSignal `gorm:"size:20;not null;default:'NONE'"`
	Status            ItemStatus      `gorm:"size:30;not null;default:'CREATED';index"`
	Position          int             `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Remaining returns the quantity still to be fulfilled
func (i *OrderItem) Remaining() decimal.Decimal {
	return i.Quantity.Sub(i.FulfilledQuantity)
}

// HasFulfillment reports whether any units have been tagged out against the item
func (i *OrderItem) HasFulfillment() bool {
	return i.FulfilledQuantity.IsPositive()
}

// Order is the aggregate root for a customer order and its items.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber  string      `gorm:"size:50;not null;uniqueIndex"`
	CustomerID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status       OrderStatus `gorm:"size:30;not null;default:'CREATED';index"`
	DueDate      *time.Time
	Remark       string      `gorm:"size:500"`
	Items        []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
	DeliveredAt  *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in CREATED state
func NewOrder(orderNumber string, customerID uuid.UUID) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		Status:            OrderStatusCreated,
		Items:             make([]OrderItem, 0),
	}
	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// AddItem appends a line item for a product configuration
func (o *Order) AddItem(productConfigID uuid.UUID, quantity decimal.Decimal) (*OrderItem, error) {
	if productConfigID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CONFIG", "Product config ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	item := OrderItem{
		ID:                uuid.New(),
		OrderID:           o.ID,
		ProductConfigID:   productConfigID,
		Quantity:          quantity,
		FulfilledQuantity: decimal.Zero,
		Readiness:         ReadinessNone,
		Status:            ItemStatusCreated,
		Position:          len(o.Items),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	o.Items = append(o.Items, item)
	o.touch()
	o.refreshStatus()

	o.AddDomainEvent(NewOrderItemsChangedEvent(o))
	return &o.Items[len(o.Items)-1], nil
}

// UpdateItemQuantity changes the ordered quantity of an item. The quantity
// can never drop below what has already been fulfilled.
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	item := o.findItem(itemID)
	if item == nil {
		return shared.ErrNotFound
	}
	if quantity.LessThan(item.FulfilledQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be reduced below the fulfilled quantity")
	}

	item.Quantity = quantity
	item.Status = o.deriveStatusFor(item)
	item.UpdatedAt = time.Now()
	o.touch()
	o.refreshStatus()

	o.AddDomainEvent(NewOrderItemsChangedEvent(o))
	return nil
}

// RemoveItem deletes an item that has no fulfillment yet. Items with
// recorded fulfillment are part of the audit history and cannot be removed.
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	for idx := range o.Items {
		if o.Items[idx].ID != itemID {
			continue
		}
		if o.Items[idx].HasFulfillment() {
			return shared.NewDomainError("ITEM_FULFILLED", "Cannot remove an item with recorded fulfillment")
		}
		o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
		for i := range o.Items {
			o.Items[i].Position = i
		}
		o.touch()
		o.refreshStatus()
		o.AddDomainEvent(NewOrderItemsChangedEvent(o))
		return nil
	}
	return shared.ErrNotFound
}

// RecordFulfillment books tagged-out units against an item and re-derives
// statuses. Exceeding the ordered quantity is rejected with no effect.
func (o *Order) RecordFulfillment(itemID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Fulfillment quantity must be positive")
	}
	item := o.findItem(itemID)
	if item == nil {
		return shared.ErrNotFound
	}
	if item.Status == ItemStatusDelivered {
		return shared.NewDomainError("INVALID_STATE", "Item has already been delivered")
	}
	if item.FulfilledQuantity.Add(quantity).GreaterThan(item.Quantity) {
		return shared.ErrOverFulfillment
	}

	item.FulfilledQuantity = item.FulfilledQuantity.Add(quantity)
	item.Status = o.deriveStatusFor(item)
	item.UpdatedAt = time.Now()
	o.touch()
	o.refreshStatus()

	o.AddDomainEvent(NewOrderItemFulfilledEvent(o, item, quantity))
	return nil
}

// SetItemReadiness records the externally reported manufacturing state
func (o *Order) SetItemReadiness(itemID uuid.UUID, readiness ReadinessSignal) error {
	if !readiness.IsValid() {
		return shared.NewDomainError("INVALID_READINESS", "Unknown readiness signal")
	}
	item := o.findItem(itemID)
	if item == nil {
		return shared.ErrNotFound
	}
	if item.Status == ItemStatusDelivered {
		return shared.NewDomainError("INVALID_STATE", "Item has already been delivered")
	}

	item.Readiness = readiness
	item.Status = o.deriveStatusFor(item)
	item.UpdatedAt = time.Now()
	o.touch()
	o.refreshStatus()

	o.AddDomainEvent(NewOrderItemsChangedEvent(o))
	return nil
}

// MarkItemDelivered transitions an item to DELIVERED. Delivery requires full
// fulfillment and a recorded quantity change first: an item still in CREATED
// cannot jump straight to DELIVERED.
func (o *Order) MarkItemDelivered(itemID uuid.UUID) error {
	item := o.findItem(itemID)
	if item == nil {
		return shared.ErrNotFound
	}
	if item.Status == ItemStatusDelivered {
		return nil
	}
	if item.Status == ItemStatusCreated {
		return shared.NewDomainError("INVALID_STATE", "Item must pass through a recorded fulfillment before delivery")
	}
	if !item.FulfilledQuantity.Equal(item.Quantity) {
		return shared.NewDomainError("INVALID_STATE", "Delivery requires full fulfillment")
	}

	item.Status = ItemStatusDelivered
	item.UpdatedAt = time.Now()
	o.touch()
	o.refreshStatus()
	if o.Status == OrderStatusDelivered {
		now := time.Now()
		o.DeliveredAt = &now
	}

	o.AddDomainEvent(NewOrderItemsChangedEvent(o))
	return nil
}

// ProductConfigIDs returns the distinct configurations referenced by the order
func (o *Order) ProductConfigIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if !seen[item.ProductConfigID] {
			seen[item.ProductConfigID] = true
			ids = append(ids, item.ProductConfigID)
		}
	}
	return ids
}

func (o *Order) findItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// deriveStatusFor keeps DELIVERED sticky and derives everything else
func (o *Order) deriveStatusFor(item *OrderItem) ItemStatus {
	if item.Status == ItemStatusDelivered {
		return ItemStatusDelivered
	}
	return DeriveItemStatus(item.Quantity, item.FulfilledQuantity, item.Readiness)
}

func (o *Order) refreshStatus() {
	statuses := make([]ItemStatus, 0, len(o.Items))
	for _, item := range o.Items {
		statuses = append(statuses, item.Status)
	}
	old := o.Status
	o.Status = DeriveOrderStatus(statuses)
	if old != o.Status {
		o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, o.Status))
	}
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

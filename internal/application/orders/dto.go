package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemInput is one requested line item
type OrderItemInput struct {
	ProductConfigID uuid.UUID
	Quantity        decimal.Decimal
}

// CreateOrderInput carries a new customer order
type CreateOrderInput struct {
	OrderNumber string
	CustomerID  uuid.UUID
	DueDate     *time.Time
	Remark      string
	Items       []OrderItemInput
}

// UpdateOrderInput carries editable header fields. Nil pointers leave the
// field unchanged.
type UpdateOrderInput struct {
	DueDate *time.Time
	Remark  *string
}

package orders

import "github.com/shopspring/decimal"

// ItemStatus represents the fulfillment status of an order item
type ItemStatus string

const (
	ItemStatusCreated            ItemStatus = "CREATED"
	ItemStatusInProgress         ItemStatus = "IN_PROGRESS"
	ItemStatusPartiallyFulfilled ItemStatus = "PARTIALLY_FULFILLED"
	ItemStatusReady              ItemStatus = "READY"
	ItemStatusDelivered          ItemStatus = "DELIVERED"
)

// IsValid checks if the status is a known ItemStatus
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusCreated, ItemStatusInProgress, ItemStatusPartiallyFulfilled, ItemStatusReady, ItemStatusDelivered:
		return true
	}
	return false
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// ReadinessSignal is the externally reported manufacturing state of an item.
// It is an input to status derivation, never derived from quantities.
type ReadinessSignal string

const (
	ReadinessNone       ReadinessSignal = "NONE"
	ReadinessInProgress ReadinessSignal = "IN_PROGRESS"
	ReadinessReady      ReadinessSignal = "READY"
)

// IsValid checks if the signal is a known ReadinessSignal
func (r ReadinessSignal) IsValid() bool {
	switch r {
	case ReadinessNone, ReadinessInProgress, ReadinessReady:
		return true
	}
	return false
}

// OrderStatus represents the aggregate status of an order
type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "CREATED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusReady      OrderStatus = "READY"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// DeriveItemStatus derives an item's status from its quantities and the
// externally set readiness signal. DELIVERED is never derived here: delivery
// is an explicit transition that additionally requires full fulfillment.
func DeriveItemStatus(quantity, fulfilled decimal.Decimal, readiness ReadinessSignal) ItemStatus {
	if readiness == ReadinessReady {
		return ItemStatusReady
	}
	if fulfilled.IsPositive() && fulfilled.LessThan(quantity) {
		return ItemStatusPartiallyFulfilled
	}
	if fulfilled.IsPositive() && fulfilled.Equal(quantity) {
		// Fully fulfilled but not yet marked delivered
		return ItemStatusReady
	}
	if readiness == ReadinessInProgress {
		return ItemStatusInProgress
	}
	return ItemStatusCreated
}

// DeriveOrderStatus derives the aggregate order status from the item
// statuses. Precedence, first match wins:
//
//  1. all items DELIVERED       -> DELIVERED
//  2. all items READY           -> READY
//  3. any in-progress, partial, or a mix of CREATED and non-CREATED -> IN_PROGRESS
//  4. all items CREATED         -> CREATED
func DeriveOrderStatus(statuses []ItemStatus) OrderStatus {
	if len(statuses) == 0 {
		return OrderStatusCreated
	}

	allDelivered := true
	allReadyOrDelivered := true
	allCreated := true
	for _, s := range statuses {
		if s != ItemStatusDelivered {
			allDelivered = false
		}
		if s != ItemStatusReady && s != ItemStatusDelivered {
			allReadyOrDelivered = false
		}
		if s != ItemStatusCreated {
			allCreated = false
		}
	}

	switch {
	case allDelivered:
		return OrderStatusDelivered
	case allReadyOrDelivered:
		return OrderStatusReady
	case allCreated:
		return OrderStatusCreated
	default:
		return OrderStatusInProgress
	}
}

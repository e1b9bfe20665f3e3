package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeFinishedGood = "FinishedGood"
	AggregateTypeRawMaterial  = "RawMaterial"
)

// Event type constants
const (
	EventTypeStockTaggedIn            = "StockTaggedIn"
	EventTypeStockTaggedOut           = "StockTaggedOut"
	EventTypeStockAdjusted            = "StockAdjusted"
	EventTypeRawMaterialStockChanged  = "RawMaterialStockChanged"
	EventTypeReservedQuantityReported = "ReservedQuantityReported"
)

// StockTaggedInEvent is raised when a tag scan moves units into stock
type StockTaggedInEvent struct {
	shared.BaseDomainEvent
	FinishedGoodID  uuid.UUID       `json:"finished_good_id"`
	ProductConfigID uuid.UUID       `json:"product_config_id"`
	TagID           string          `json:"tag_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	NewStock        decimal.Decimal `json:"new_stock"`
}

// NewStockTaggedInEvent creates a new StockTaggedInEvent
func NewStockTaggedInEvent(good *FinishedGood, tagID string, quantity decimal.Decimal) *StockTaggedInEvent {
	return &StockTaggedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTaggedIn, AggregateTypeFinishedGood, good.ID),
		FinishedGoodID:  good.ID,
		ProductConfigID: good.ProductConfigID,
		TagID:           tagID,
		Quantity:        quantity,
		NewStock:        good.CurrentStock,
	}
}

// EventType returns the event type name
func (e *StockTaggedInEvent) EventType() string {
	return EventTypeStockTaggedIn
}

// StockTaggedOutEvent is raised when units leave stock against an order item
type StockTaggedOutEvent struct {
	shared.BaseDomainEvent
	FinishedGoodID  uuid.UUID       `json:"finished_good_id"`
	ProductConfigID uuid.UUID       `json:"product_config_id"`
	TagID           string          `json:"tag_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	NewStock        decimal.Decimal `json:"new_stock"`
	OrderID         uuid.UUID       `json:"order_id"`
	OrderItemID     uuid.UUID       `json:"order_item_id"`
}

// NewStockTaggedOutEvent creates a new StockTaggedOutEvent
func NewStockTaggedOutEvent(good *FinishedGood, tagID string, quantity decimal.Decimal, orderID, orderItemID uuid.UUID) *StockTaggedOutEvent {
	return &StockTaggedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTaggedOut, AggregateTypeFinishedGood, good.ID),
		FinishedGoodID:  good.ID,
		ProductConfigID: good.ProductConfigID,
		TagID:           tagID,
		Quantity:        quantity,
		NewStock:        good.CurrentStock,
		OrderID:         orderID,
		OrderItemID:     orderItemID,
	}
}

// EventType returns the event type name
func (e *StockTaggedOutEvent) EventType() string {
	return EventTypeStockTaggedOut
}

// StockAdjustedEvent is raised for manual stock corrections
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	FinishedGoodID  uuid.UUID       `json:"finished_good_id"`
	ProductConfigID uuid.UUID       `json:"product_config_id"`
	Delta           decimal.Decimal `json:"delta"`
	NewStock        decimal.Decimal `json:"new_stock"`
	Reason          string          `json:"reason,omitempty"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(good *FinishedGood, delta decimal.Decimal, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeFinishedGood, good.ID),
		FinishedGoodID:  good.ID,
		ProductConfigID: good.ProductConfigID,
		Delta:           delta,
		NewStock:        good.CurrentStock,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// RawMaterialStockChangedEvent is raised when raw-material stock moves;
// shortfall figures derived from it must be refreshed.
type RawMaterialStockChangedEvent struct {
	shared.BaseDomainEvent
	RawMaterialID uuid.UUID       `json:"raw_material_id"`
	Delta         decimal.Decimal `json:"delta"`
	NewStock      decimal.Decimal `json:"new_stock"`
}

// NewRawMaterialStockChangedEvent creates a new RawMaterialStockChangedEvent
func NewRawMaterialStockChangedEvent(material *RawMaterial, delta decimal.Decimal) *RawMaterialStockChangedEvent {
	return &RawMaterialStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRawMaterialStockChanged, AggregateTypeRawMaterial, material.ID),
		RawMaterialID:   material.ID,
		Delta:           delta,
		NewStock:        material.CurrentStock,
	}
}

// EventType returns the event type name
func (e *RawMaterialStockChangedEvent) EventType() string {
	return EventTypeRawMaterialStockChanged
}

// ReservedQuantityReportedEvent is raised when an external surface reports a
// new in-manufacturing or in-procurement figure.
type ReservedQuantityReportedEvent struct {
	shared.BaseDomainEvent
	EntityID uuid.UUID       `json:"entity_id"`
	Reserved decimal.Decimal `json:"reserved"`
}

// NewReservedQuantityReportedEvent creates a new ReservedQuantityReportedEvent
func NewReservedQuantityReportedEvent(aggType string, entityID uuid.UUID, reserved decimal.Decimal) *ReservedQuantityReportedEvent {
	return &ReservedQuantityReportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservedQuantityReported, aggType, entityID),
		EntityID:        entityID,
		Reserved:        reserved,
	}
}

// EventType returns the event type name
func (e *ReservedQuantityReportedEvent) EventType() string {
	return EventTypeReservedQuantityReported
}

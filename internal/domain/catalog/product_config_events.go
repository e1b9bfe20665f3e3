package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProductConfig = "ProductConfig"

// Event type constants
const (
	EventTypeProductConfigCreated          = "ProductConfigCreated"
	EventTypeProductConfigThresholdChanged = "ProductConfigThresholdChanged"
	EventTypeBillOfMaterialsChanged        = "BillOfMaterialsChanged"
)

// ProductConfigCreatedEvent is raised when a new configuration is defined
type ProductConfigCreatedEvent struct {
	shared.BaseDomainEvent
	ProductConfigID uuid.UUID `json:"product_config_id"`
	Code            string    `json:"code"`
}

// NewProductConfigCreatedEvent creates a new ProductConfigCreatedEvent
func NewProductConfigCreatedEvent(cfg *ProductConfig) *ProductConfigCreatedEvent {
	return &ProductConfigCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductConfigCreated, AggregateTypeProductConfig, cfg.ID),
		ProductConfigID: cfg.ID,
		Code:            cfg.Code,
	}
}

// EventType returns the event type name
func (e *ProductConfigCreatedEvent) EventType() string {
	return EventTypeProductConfigCreated
}

// ProductConfigThresholdChangedEvent is raised when the safety stock
// threshold is edited; requirement figures must be re-derived.
type ProductConfigThresholdChangedEvent struct {
	shared.BaseDomainEvent
	ProductConfigID uuid.UUID       `json:"product_config_id"`
	OldThreshold    decimal.Decimal `json:"old_threshold"`
	NewThreshold    decimal.Decimal `json:"new_threshold"`
}

// NewProductConfigThresholdChangedEvent creates a new ProductConfigThresholdChangedEvent
func NewProductConfigThresholdChangedEvent(cfg *ProductConfig, oldThreshold, newThreshold decimal.Decimal) *ProductConfigThresholdChangedEvent {
	return &ProductConfigThresholdChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductConfigThresholdChanged, AggregateTypeProductConfig, cfg.ID),
		ProductConfigID: cfg.ID,
		OldThreshold:    oldThreshold,
		NewThreshold:    newThreshold,
	}
}

// EventType returns the event type name
func (e *ProductConfigThresholdChangedEvent) EventType() string {
	return EventTypeProductConfigThresholdChanged
}

// BillOfMaterialsChangedEvent is raised when the material composition of a
// configuration changes; cascaded raw-material requirements must be
// re-derived. RawMaterialIDs carries every material the edit touches, the
// pre-edit edges included, so a material dropped from the bill still gets
// its stale requirement reconciled.
type BillOfMaterialsChangedEvent struct {
	shared.BaseDomainEvent
	ProductConfigID uuid.UUID   `json:"product_config_id"`
	RawMaterialIDs  []uuid.UUID `json:"raw_material_ids"`
}

// NewBillOfMaterialsChangedEvent creates a new BillOfMaterialsChangedEvent
// from the post-edit configuration and the pre-edit bill of materials.
func NewBillOfMaterialsChangedEvent(cfg *ProductConfig, previous []MaterialRequirement) *BillOfMaterialsChangedEvent {
	seen := make(map[uuid.UUID]struct{}, len(cfg.Materials)+len(previous))
	ids := make([]uuid.UUID, 0, len(cfg.Materials)+len(previous))
	for _, m := range previous {
		if _, ok := seen[m.RawMaterialID]; !ok {
			seen[m.RawMaterialID] = struct{}{}
			ids = append(ids, m.RawMaterialID)
		}
	}
	for _, m := range cfg.Materials {
		if _, ok := seen[m.RawMaterialID]; !ok {
			seen[m.RawMaterialID] = struct{}{}
			ids = append(ids, m.RawMaterialID)
		}
	}
	return &BillOfMaterialsChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillOfMaterialsChanged, AggregateTypeProductConfig, cfg.ID),
		ProductConfigID: cfg.ID,
		RawMaterialIDs:  ids,
	}
}

// EventType returns the event type name
func (e *BillOfMaterialsChangedEvent) EventType() string {
	return EventTypeBillOfMaterialsChanged
}

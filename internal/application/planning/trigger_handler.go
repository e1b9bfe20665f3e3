package planning

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/orders"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// TriggerHandler listens for the domain events that invalidate requirement
// figures and flags the affected configurations in the dirty set. Handling
// only enqueues; the worker does the recomputation, so a slow recalculation
// never backs up into the mutating request.
type TriggerHandler struct {
	dirty  *DirtySet
	goods  inventory.FinishedGoodRepository
	logger *zap.Logger
}

// NewTriggerHandler creates a new TriggerHandler
func NewTriggerHandler(dirty *DirtySet, goods inventory.FinishedGoodRepository, logger *zap.Logger) *TriggerHandler {
	return &TriggerHandler{
		dirty:  dirty,
		goods:  goods,
		logger: logger,
	}
}

// EventTypes returns the trigger events
func (h *TriggerHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockTaggedIn,
		inventory.EventTypeStockTaggedOut,
		inventory.EventTypeStockAdjusted,
		inventory.EventTypeReservedQuantityReported,
		orders.EventTypeOrderCreated,
		orders.EventTypeOrderItemsChanged,
		orders.EventTypeOrderItemFulfilled,
		orders.EventTypeOrderDeleted,
		catalog.EventTypeProductConfigThresholdChanged,
		catalog.EventTypeBillOfMaterialsChanged,
	}
}

// Handle flags the configurations affected by one event
func (h *TriggerHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.StockTaggedInEvent:
		h.dirty.MarkConfigs(e.ProductConfigID)
	case *inventory.StockTaggedOutEvent:
		h.dirty.MarkConfigs(e.ProductConfigID)
	case *inventory.StockAdjustedEvent:
		h.dirty.MarkConfigs(e.ProductConfigID)
	case *inventory.ReservedQuantityReportedEvent:
		return h.handleReservation(ctx, e)
	case *orders.OrderCreatedEvent:
		h.dirty.MarkConfigs(e.ProductConfigIDs...)
	case *orders.OrderItemsChangedEvent:
		h.dirty.MarkConfigs(e.ProductConfigIDs...)
	case *orders.OrderItemFulfilledEvent:
		h.dirty.MarkConfigs(e.ProductConfigID)
	case *orders.OrderDeletedEvent:
		h.dirty.MarkConfigs(e.ProductConfigIDs...)
	case *catalog.ProductConfigThresholdChangedEvent:
		h.dirty.MarkConfigs(e.ProductConfigID)
	case *catalog.BillOfMaterialsChangedEvent:
		// The event lists pre-edit materials too; a material dropped from
		// the bill is unreachable through the configuration and must be
		// reconciled directly.
		h.dirty.MarkConfigs(e.ProductConfigID)
		h.dirty.MarkMaterials(e.RawMaterialIDs...)
	default:
		h.logger.Debug("ignoring unexpected event", zap.String("event_type", event.EventType()))
	}
	return nil
}

// handleReservation resolves a finished-good reservation back to its
// configuration. Raw-material reservations change a read-time formula only
// and need no recomputation.
func (h *TriggerHandler) handleReservation(ctx context.Context, e *inventory.ReservedQuantityReportedEvent) error {
	if e.AggregateType() != inventory.AggregateTypeFinishedGood {
		return nil
	}
	good, err := h.goods.FindByID(ctx, e.EntityID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	h.dirty.MarkConfigs(good.ProductConfigID)
	return nil
}

var _ shared.EventHandler = (*TriggerHandler)(nil)

package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// maxConflictRetries bounds how often a stock mutation is replayed after an
// optimistic lock conflict before the error is surfaced to the caller.
const maxConflictRetries = 3

// StockLedgerService is the only writer of stock levels. Every mutation runs
// in one transaction together with its audit record, and for tag outs also
// with the fulfillment booking on the order item.
type StockLedgerService struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewStockLedgerService creates a new StockLedgerService
func NewStockLedgerService(scope TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *StockLedgerService {
	return &StockLedgerService{
		scope:     scope,
		publisher: publisher,
		logger:    logger,
	}
}

// TagIn consumes a physical tag and moves its units into stock. A tag ID can
// be consumed exactly once; replaying the same scan is rejected.
func (s *StockLedgerService) TagIn(ctx context.Context, input TagInInput) (*StockDeltaResult, error) {
	if input.TagID == "" {
		return nil, shared.NewDomainError("INVALID_TAG", "Tag ID cannot be empty")
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Tag-in quantity must be positive")
	}

	var result *StockDeltaResult
	var events []shared.DomainEvent

	err := s.withConflictRetry(ctx, func() error {
		events = events[:0]
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			consumed, err := repos.TagEventRepo().ExistsTagIn(ctx, input.TagID)
			if err != nil {
				return err
			}
			if consumed {
				return shared.ErrDuplicateTag
			}

			good, err := repos.FinishedGoodRepo().FindByID(ctx, input.FinishedGoodID)
			if err != nil {
				return err
			}

			previous, current, err := good.ApplyDelta(input.Quantity)
			if err != nil {
				return err
			}

			audit, err := inventory.NewTagEvent(good.ID, inventory.TagActionIn, input.TagID, input.Quantity, previous, current, input.UserID)
			if err != nil {
				return err
			}
			if err := repos.TagEventRepo().Append(ctx, audit); err != nil {
				return err
			}
			if err := repos.FinishedGoodRepo().SaveWithLock(ctx, good); err != nil {
				return err
			}

			events = append(events, inventory.NewStockTaggedInEvent(good, input.TagID, input.Quantity))
			result = &StockDeltaResult{
				FinishedGoodID: good.ID,
				PreviousStock:  previous,
				NewStock:       current,
				TagEventID:     audit.ID,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Info("stock tagged in",
		zap.String("tag_id", input.TagID),
		zap.String("finished_good_id", input.FinishedGoodID.String()),
		zap.String("quantity", input.Quantity.String()))
	return result, nil
}

// TagOut moves units out of stock against a customer order item. The stock
// delta, the fulfillment booking and the audit record commit together; if any
// of them fails, none of them happens.
func (s *StockLedgerService) TagOut(ctx context.Context, input TagOutInput) (*StockDeltaResult, error) {
	if input.TagID == "" {
		return nil, shared.NewDomainError("INVALID_TAG", "Tag ID cannot be empty")
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Tag-out quantity must be positive")
	}

	var result *StockDeltaResult
	var events []shared.DomainEvent

	err := s.withConflictRetry(ctx, func() error {
		events = events[:0]
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			order, err := repos.OrderRepo().FindByItemID(ctx, input.OrderItemID)
			if err != nil {
				return err
			}
			if order.ID != input.OrderID {
				return shared.NewDomainError("INVALID_ORDER_ITEM", "Order item does not belong to the given order")
			}
			if order.CustomerID != input.CustomerID {
				return shared.NewDomainError("INVALID_CUSTOMER", "Customer does not match the order")
			}

			if err := order.RecordFulfillment(input.OrderItemID, input.Quantity); err != nil {
				return err
			}

			good, err := repos.FinishedGoodRepo().FindByID(ctx, input.FinishedGoodID)
			if err != nil {
				return err
			}

			delta := input.Quantity.Neg()
			previous, current, err := good.ApplyDelta(delta)
			if err != nil {
				return err
			}

			audit, err := inventory.NewTagEvent(good.ID, inventory.TagActionOut, input.TagID, delta, previous, current, input.UserID)
			if err != nil {
				return err
			}
			audit.LinkOrder(input.CustomerID, input.OrderID, input.OrderItemID)

			if err := repos.TagEventRepo().Append(ctx, audit); err != nil {
				return err
			}
			if err := repos.OrderRepo().Save(ctx, order); err != nil {
				return err
			}
			if err := repos.FinishedGoodRepo().SaveWithLock(ctx, good); err != nil {
				return err
			}

			events = append(events, order.GetDomainEvents()...)
			events = append(events, inventory.NewStockTaggedOutEvent(good, input.TagID, input.Quantity, input.OrderID, input.OrderItemID))
			order.ClearDomainEvents()

			result = &StockDeltaResult{
				FinishedGoodID: good.ID,
				PreviousStock:  previous,
				NewStock:       current,
				TagEventID:     audit.ID,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Info("stock tagged out",
		zap.String("tag_id", input.TagID),
		zap.String("finished_good_id", input.FinishedGoodID.String()),
		zap.String("order_item_id", input.OrderItemID.String()),
		zap.String("quantity", input.Quantity.String()))
	return result, nil
}

// AdjustStock applies a manual correction without a physical tag. The reason
// is recorded in the audit trail.
func (s *StockLedgerService) AdjustStock(ctx context.Context, input AdjustStockInput) (*StockDeltaResult, error) {
	if input.Reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustments require a reason")
	}

	var result *StockDeltaResult
	var events []shared.DomainEvent

	err := s.withConflictRetry(ctx, func() error {
		events = events[:0]
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			good, err := repos.FinishedGoodRepo().FindByID(ctx, input.FinishedGoodID)
			if err != nil {
				return err
			}

			previous, current, err := good.ApplyDelta(input.Delta)
			if err != nil {
				return err
			}

			audit, err := inventory.NewTagEvent(good.ID, inventory.TagActionAdjust, "", input.Delta, previous, current, input.UserID)
			if err != nil {
				return err
			}
			audit.Reason = input.Reason

			if err := repos.TagEventRepo().Append(ctx, audit); err != nil {
				return err
			}
			if err := repos.FinishedGoodRepo().SaveWithLock(ctx, good); err != nil {
				return err
			}

			events = append(events, inventory.NewStockAdjustedEvent(good, input.Delta, input.Reason))
			result = &StockDeltaResult{
				FinishedGoodID: good.ID,
				PreviousStock:  previous,
				NewStock:       current,
				TagEventID:     audit.ID,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Info("stock adjusted",
		zap.String("finished_good_id", input.FinishedGoodID.String()),
		zap.String("delta", input.Delta.String()),
		zap.String("reason", input.Reason))
	return result, nil
}

// ApplyMaterialDelta applies a signed raw-material stock movement.
func (s *StockLedgerService) ApplyMaterialDelta(ctx context.Context, input MaterialDeltaInput) (*MaterialDeltaResult, error) {
	var result *MaterialDeltaResult
	var events []shared.DomainEvent

	err := s.withConflictRetry(ctx, func() error {
		events = events[:0]
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			material, err := repos.RawMaterialRepo().FindByID(ctx, input.RawMaterialID)
			if err != nil {
				return err
			}

			previous, current, err := material.ApplyDelta(input.Delta)
			if err != nil {
				return err
			}

			if err := repos.RawMaterialRepo().SaveWithLock(ctx, material); err != nil {
				return err
			}

			events = append(events, inventory.NewRawMaterialStockChangedEvent(material, input.Delta))
			result = &MaterialDeltaResult{
				RawMaterialID: material.ID,
				PreviousStock: previous,
				NewStock:      current,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return result, nil
}

// ReportManufacturingQuantity records the externally reported in-progress
// quantity for a finished good.
func (s *StockLedgerService) ReportManufacturingQuantity(ctx context.Context, finishedGoodID uuid.UUID, quantity decimal.Decimal) error {
	var events []shared.DomainEvent

	err := s.withConflictRetry(ctx, func() error {
		events = events[:0]
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			good, err := repos.FinishedGoodRepo().FindByID(ctx, finishedGoodID)
			if err != nil {
				return err
			}
			if err := good.SetInManufacturing(quantity); err != nil {
				return err
			}
			if err := repos.FinishedGoodRepo().SaveWithLock(ctx, good); err != nil {
				return err
			}
			events = append(events, inventory.NewReservedQuantityReportedEvent(inventory.AggregateTypeFinishedGood, good.ID, quantity))
			return nil
		})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// ReportProcurementQuantity records the externally reported in-flight
// quantity for a raw material.
func (s *StockLedgerService) ReportProcurementQuantity(ctx context.Context, rawMaterialID uuid.UUID, quantity decimal.Decimal) error {
	var events []shared.DomainEvent

	err := s.withConflictRetry(ctx, func() error {
		events = events[:0]
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			material, err := repos.RawMaterialRepo().FindByID(ctx, rawMaterialID)
			if err != nil {
				return err
			}
			if err := material.SetInProcurement(quantity); err != nil {
				return err
			}
			if err := repos.RawMaterialRepo().SaveWithLock(ctx, material); err != nil {
				return err
			}
			events = append(events, inventory.NewReservedQuantityReportedEvent(inventory.AggregateTypeRawMaterial, material.ID, quantity))
			return nil
		})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// withConflictRetry replays the mutation when the optimistic lock detects a
// concurrent writer. The closure reloads all aggregates, so each attempt
// works on fresh state.
func (s *StockLedgerService) withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = fn()
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		s.logger.Warn("stock mutation hit concurrent writer, retrying", zap.Int("attempt", attempt))
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

// publish fires the collected domain events after the transaction committed.
// Publishing failures are logged and swallowed: the mutation is durable, and
// the recalculation pipeline reconciles on its next full run.
func (s *StockLedgerService) publish(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err), zap.Int("count", len(events)))
	}
}

package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// FinishedGood tracks the stock position of one product configuration.
// It is the aggregate root for finished-goods stock operations.
//
// CurrentStock is owned exclusively by the stock ledger; RequiredQuantity is
// owned exclusively by the recalculation pipeline. Nothing else writes these
// columns.
type FinishedGood struct {
	shared.BaseAggregateRoot
	ProductConfigID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CurrentStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Physical units on hand
	InManufacturing  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Externally reported reservation
	RequiredQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Derived from open order items
	Threshold        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Safety stock, copied from the configuration
}

// TableName returns the table name for GORM
func (FinishedGood) TableName() string {
	return "finished_goods"
}

// NewFinishedGood creates the stock record for a product configuration
func NewFinishedGood(productConfigID uuid.UUID, threshold decimal.Decimal) (*FinishedGood, error) {
	if productConfigID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CONFIG", "Product config ID cannot be empty")
	}
	if threshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}

	return &FinishedGood{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductConfigID:   productConfigID,
		CurrentStock:      decimal.Zero,
		InManufacturing:   decimal.Zero,
		RequiredQuantity:  decimal.Zero,
		Threshold:         threshold,
	}, nil
}

// ApplyDelta applies a signed stock delta. A delta that would drive the stock
// below zero is rejected and the aggregate is left unchanged. Finished goods
// are counted in whole units.
func (g *FinishedGood) ApplyDelta(delta decimal.Decimal) (previous, current decimal.Decimal, err error) {
	if delta.IsZero() {
		return decimal.Zero, decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Delta cannot be zero")
	}
	if !delta.IsInteger() {
		return decimal.Zero, decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Finished goods are counted in whole units")
	}

	previous = g.CurrentStock
	current = previous.Add(delta)
	if current.IsNegative() {
		return decimal.Zero, decimal.Zero, shared.ErrInsufficientStock
	}

	g.CurrentStock = current
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return previous, current, nil
}

// SetInManufacturing records the externally reported in-progress quantity
func (g *FinishedGood) SetInManufacturing(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "In-manufacturing quantity cannot be negative")
	}
	g.InManufacturing = quantity
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return nil
}

// SetThreshold mirrors a threshold edit on the owning configuration
func (g *FinishedGood) SetThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}
	g.Threshold = threshold
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return nil
}

// SetRequiredQuantity is called by the recalculation pipeline only
func (g *FinishedGood) SetRequiredQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Required quantity cannot be negative")
	}
	g.RequiredQuantity = quantity
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return nil
}

// Shortfall returns (required + threshold) - (current + in manufacturing).
// A negative value is a surplus.
func (g *FinishedGood) Shortfall() decimal.Decimal {
	return g.RequiredQuantity.Add(g.Threshold).Sub(g.CurrentStock.Add(g.InManufacturing))
}

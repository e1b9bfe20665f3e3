package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// MaterialStatus classifies a raw material's supply position for display
type MaterialStatus string

const (
	// MaterialStatusCritical means the shortfall is positive: demand plus the
	// minimum-stock buffer exceeds stock on hand plus stock in procurement.
	MaterialStatusCritical MaterialStatus = "CRITICAL"
	// MaterialStatusLow means stock on hand is at or below the minimum.
	MaterialStatusLow MaterialStatus = "LOW"
	// MaterialStatusGood means supply covers demand with buffer to spare.
	MaterialStatusGood MaterialStatus = "GOOD"
)

// String returns the string representation of MaterialStatus
func (s MaterialStatus) String() string {
	return string(s)
}

// RawMaterial tracks the stock position of one raw material.
//
// CurrentStock is owned exclusively by the stock ledger; RequiredQuantity is
// owned exclusively by the bill-of-materials cascade.
type RawMaterial struct {
	shared.BaseAggregateRoot
	Name             string          `gorm:"size:200;not null"`
	Unit             string          `gorm:"size:20;not null"`
	CurrentStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InProcurement    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Externally reported reservation
	RequiredQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Derived by the BOM cascade
}

// TableName returns the table name for GORM
func (RawMaterial) TableName() string {
	return "raw_materials"
}

// NewRawMaterial creates a new raw material record
func NewRawMaterial(name, unit string, minimumStock decimal.Decimal) (*RawMaterial, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if minimumStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Minimum stock cannot be negative")
	}

	return &RawMaterial{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Unit:              unit,
		CurrentStock:      decimal.Zero,
		MinimumStock:      minimumStock,
		InProcurement:     decimal.Zero,
		RequiredQuantity:  decimal.Zero,
	}, nil
}

// ApplyDelta applies a signed stock delta, rejecting any result below zero.
func (m *RawMaterial) ApplyDelta(delta decimal.Decimal) (previous, current decimal.Decimal, err error) {
	if delta.IsZero() {
		return decimal.Zero, decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Delta cannot be zero")
	}

	previous = m.CurrentStock
	current = previous.Add(delta)
	if current.IsNegative() {
		return decimal.Zero, decimal.Zero, shared.ErrInsufficientStock
	}

	m.CurrentStock = current
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return previous, current, nil
}

// SetInProcurement records the externally reported in-flight quantity
func (m *RawMaterial) SetInProcurement(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "In-procurement quantity cannot be negative")
	}
	m.InProcurement = quantity
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// SetMinimumStock updates the minimum stock buffer
func (m *RawMaterial) SetMinimumStock(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum stock cannot be negative")
	}
	m.MinimumStock = quantity
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// SetRequiredQuantity is called by the BOM cascade only
func (m *RawMaterial) SetRequiredQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Required quantity cannot be negative")
	}
	m.RequiredQuantity = quantity
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// Shortfall returns (required + minimum) - (current + in procurement).
// A negative value is a surplus.
func (m *RawMaterial) Shortfall() decimal.Decimal {
	return m.RequiredQuantity.Add(m.MinimumStock).Sub(m.CurrentStock.Add(m.InProcurement))
}

// Status classifies the supply position for display
func (m *RawMaterial) Status() MaterialStatus {
	if m.Shortfall().IsPositive() {
		return MaterialStatusCritical
	}
	if m.CurrentStock.LessThanOrEqual(m.MinimumStock) {
		return MaterialStatusLow
	}
	return MaterialStatusGood
}

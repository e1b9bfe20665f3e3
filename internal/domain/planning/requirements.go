// Package planning holds the pure derivation rules that connect orders,
// finished goods and raw materials: outstanding-demand aggregation, the
// bill-of-materials cascade and the shortfall formulas. The functions here
// have no I/O so the recompute pipeline can be tested in isolation.
package planning

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/orders"
)

// OutstandingDemand sums (quantity - fulfilled) over all non-delivered items
// referencing the given configuration. A DELIVERED item contributes zero even
// if its fulfilled quantity is below the ordered quantity; that state only
// occurs after manual data repair and must not be double counted.
func OutstandingDemand(items []orders.OrderItem, productConfigID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.ProductConfigID != productConfigID {
			continue
		}
		if item.Status == orders.ItemStatusDelivered {
			continue
		}
		total = total.Add(item.Remaining())
	}
	return total
}

// Shortfall is demand plus safety buffer minus available supply. Positive
// means a deficit; negative or zero means sufficient stock. The same shape
// covers finished goods (threshold, in manufacturing) and raw materials
// (minimum stock, in procurement).
func Shortfall(required, buffer, currentStock, reserved decimal.Decimal) decimal.Decimal {
	return required.Add(buffer).Sub(currentStock.Add(reserved))
}

// PositiveDemand clamps a shortfall at zero. A finished-good surplus never
// reduces raw-material demand: clamp per configuration, then sum.
func PositiveDemand(shortfall decimal.Decimal) decimal.Decimal {
	if shortfall.IsNegative() {
		return decimal.Zero
	}
	return shortfall
}

// CascadedRequirement computes a raw material's derived requirement: the sum
// over all configurations using the material of the clamped finished-good
// shortfall multiplied by the per-unit quantity from the bill of materials.
func CascadedRequirement(configs []catalog.ProductConfig, shortfallByConfig map[uuid.UUID]decimal.Decimal, rawMaterialID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for i := range configs {
		perUnit := configs[i].QuantityPerUnitOf(rawMaterialID)
		if perUnit.IsZero() {
			continue
		}
		demand := PositiveDemand(shortfallByConfig[configs[i].ID])
		total = total.Add(demand.Mul(perUnit))
	}
	return total
}

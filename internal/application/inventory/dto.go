package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TagInInput carries a tag-in scan: a physical tag representing newly
// manufactured units entering stock.
type TagInInput struct {
	TagID          string
	FinishedGoodID uuid.UUID
	Quantity       decimal.Decimal
	UserID         uuid.UUID
}

// TagOutInput carries a tag-out scan: units leaving stock against a customer
// order item.
type TagOutInput struct {
	TagID          string
	FinishedGoodID uuid.UUID
	Quantity       decimal.Decimal
	UserID         uuid.UUID
	CustomerID     uuid.UUID
	OrderID        uuid.UUID
	OrderItemID    uuid.UUID
}

// AdjustStockInput carries a manual stock correction without a physical tag.
type AdjustStockInput struct {
	FinishedGoodID uuid.UUID
	Delta          decimal.Decimal
	Reason         string
	UserID         uuid.UUID
}

// MaterialDeltaInput carries a raw-material stock movement.
type MaterialDeltaInput struct {
	RawMaterialID uuid.UUID
	Delta         decimal.Decimal
	Reason        string
	UserID        uuid.UUID
}

// StockDeltaResult reports the stock position around an applied delta.
type StockDeltaResult struct {
	FinishedGoodID uuid.UUID       `json:"finished_good_id"`
	PreviousStock  decimal.Decimal `json:"previous_stock"`
	NewStock       decimal.Decimal `json:"new_stock"`
	TagEventID     uuid.UUID       `json:"tag_event_id"`
}

// MaterialDeltaResult reports the raw-material stock position around an
// applied delta.
type MaterialDeltaResult struct {
	RawMaterialID uuid.UUID       `json:"raw_material_id"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
}

package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialInput is one bill-of-materials edge in a configuration request
type MaterialInput struct {
	RawMaterialID   uuid.UUID
	QuantityPerUnit decimal.Decimal
	Unit            string
}

// CreateProductConfigInput carries a new SKU definition
type CreateProductConfigInput struct {
	Category    string
	Subcategory string
	Size        string
	Weight      decimal.Decimal
	Threshold   decimal.Decimal
	Materials   []MaterialInput
}

// CreateRawMaterialInput carries a new raw material
type CreateRawMaterialInput struct {
	Name         string
	Unit         string
	MinimumStock decimal.Decimal
}

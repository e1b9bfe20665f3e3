package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// ProductConfig is the SKU definition for a finished good. It is the
// aggregate root for the bill of materials: the ordered set of
// MaterialRequirement children describes how much of each raw material is
// consumed to produce one unit.
//
// Once a fulfilled order references a configuration, only the threshold and
// active flag may still be edited.
type ProductConfig struct {
	shared.BaseAggregateRoot
	Category    string          `gorm:"size:100;not null;index"`
	Subcategory string          `gorm:"size:100;not null"`
	Size        string          `gorm:"size:50"`
	Weight      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Code        string          `gorm:"size:64;not null;uniqueIndex"`
	Threshold   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Safety stock for the finished good
	Active      bool            `gorm:"not null;default:true"`

	Materials []MaterialRequirement `gorm:"foreignKey:ProductConfigID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductConfig) TableName() string {
	return "product_configs"
}

// MaterialRequirement is a bill-of-materials edge: the quantity of one raw
// material consumed per unit of the owning product configuration.
type MaterialRequirement struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductConfigID uuid.UUID       `gorm:"type:uuid;not null;index"`
	RawMaterialID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityPerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit            string          `gorm:"size:20;not null"`
	Position        int             `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (MaterialRequirement) TableName() string {
	return "material_requirements"
}

// NewProductConfig creates a new product configuration. The product code is
// generated from the category, subcategory and size attributes.
func NewProductConfig(category, subcategory, size string, weight, threshold decimal.Decimal) (*ProductConfig, error) {
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if subcategory == "" {
		return nil, shared.NewDomainError("INVALID_SUBCATEGORY", "Subcategory cannot be empty")
	}
	if weight.IsNegative() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
	}
	if threshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}

	cfg := &ProductConfig{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Category:          category,
		Subcategory:       subcategory,
		Size:              size,
		Weight:            weight,
		Threshold:         threshold,
		Active:            true,
		Materials:         make([]MaterialRequirement, 0),
	}
	cfg.Code = generateCode(cfg)

	cfg.AddDomainEvent(NewProductConfigCreatedEvent(cfg))
	return cfg, nil
}

// generateCode builds a deterministic product code from the configuration
// attributes and a short ID suffix to disambiguate equal attribute sets.
func generateCode(cfg *ProductConfig) string {
	parts := []string{
		strings.ToUpper(abbreviate(cfg.Category)),
		strings.ToUpper(abbreviate(cfg.Subcategory)),
	}
	if cfg.Size != "" {
		parts = append(parts, strings.ToUpper(cfg.Size))
	}
	if cfg.Weight.IsPositive() {
		parts = append(parts, cfg.Weight.String())
	}
	suffix := strings.ToUpper(cfg.ID.String()[:8])
	return fmt.Sprintf("%s-%s", strings.Join(parts, "-"), suffix)
}

func abbreviate(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if len(s) > 4 {
		return s[:4]
	}
	return s
}

// AddMaterial appends a bill-of-materials edge. Position preserves the
// declared ordering.
func (c *ProductConfig) AddMaterial(rawMaterialID uuid.UUID, quantityPerUnit decimal.Decimal, unit string) error {
	if rawMaterialID == uuid.Nil {
		return shared.NewDomainError("INVALID_MATERIAL", "Raw material ID cannot be empty")
	}
	if quantityPerUnit.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity per unit must be positive")
	}
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	for _, m := range c.Materials {
		if m.RawMaterialID == rawMaterialID {
			return shared.NewDomainError("DUPLICATE_MATERIAL", "Raw material already present in bill of materials")
		}
	}

	now := time.Now()
	previous := c.Materials
	c.Materials = append(c.Materials, MaterialRequirement{
		ID:              uuid.New(),
		ProductConfigID: c.ID,
		RawMaterialID:   rawMaterialID,
		QuantityPerUnit: quantityPerUnit,
		Unit:            unit,
		Position:        len(c.Materials),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewBillOfMaterialsChangedEvent(c, previous))
	return nil
}

// ReplaceMaterials swaps the whole bill of materials in one edit.
func (c *ProductConfig) ReplaceMaterials(edges []MaterialRequirement) error {
	seen := make(map[uuid.UUID]bool, len(edges))
	for i := range edges {
		if edges[i].RawMaterialID == uuid.Nil {
			return shared.NewDomainError("INVALID_MATERIAL", "Raw material ID cannot be empty")
		}
		if edges[i].QuantityPerUnit.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity per unit must be positive")
		}
		if seen[edges[i].RawMaterialID] {
			return shared.NewDomainError("DUPLICATE_MATERIAL", "Raw material listed twice in bill of materials")
		}
		seen[edges[i].RawMaterialID] = true
	}

	now := time.Now()
	replaced := make([]MaterialRequirement, 0, len(edges))
	for i, e := range edges {
		replaced = append(replaced, MaterialRequirement{
			ID:              uuid.New(),
			ProductConfigID: c.ID,
			RawMaterialID:   e.RawMaterialID,
			QuantityPerUnit: e.QuantityPerUnit,
			Unit:            e.Unit,
			Position:        i,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	previous := c.Materials
	c.Materials = replaced
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewBillOfMaterialsChangedEvent(c, previous))
	return nil
}

// SetThreshold updates the safety-stock threshold.
func (c *ProductConfig) SetThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}
	old := c.Threshold
	c.Threshold = threshold
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	if !old.Equal(threshold) {
		c.AddDomainEvent(NewProductConfigThresholdChangedEvent(c, old, threshold))
	}
	return nil
}

// Deactivate marks the configuration inactive. Inactive configurations keep
// their history but stop receiving new orders.
func (c *ProductConfig) Deactivate() {
	if !c.Active {
		return
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate re-enables the configuration.
func (c *ProductConfig) Activate() {
	if c.Active {
		return
	}
	c.Active = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// QuantityPerUnitOf returns the per-unit requirement for a raw material,
// or zero if the material is not part of the bill of materials.
func (c *ProductConfig) QuantityPerUnitOf(rawMaterialID uuid.UUID) decimal.Decimal {
	for _, m := range c.Materials {
		if m.RawMaterialID == rawMaterialID {
			return m.QuantityPerUnit
		}
	}
	return decimal.Zero
}

// UsesMaterial reports whether the configuration consumes the raw material.
func (c *ProductConfig) UsesMaterial(rawMaterialID uuid.UUID) bool {
	for _, m := range c.Materials {
		if m.RawMaterialID == rawMaterialID {
			return true
		}
	}
	return false
}

package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductConfigSortFields contains allowed sort fields for product configurations
var ProductConfigSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"category":    true,
	"subcategory": true,
	"threshold":   true,
	"active":      true,
}

// FinishedGoodSortFields contains allowed sort fields for finished goods
var FinishedGoodSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"product_config_id": true,
	"current_stock":     true,
	"required_quantity": true,
	"threshold":         true,
}

// RawMaterialSortFields contains allowed sort fields for raw materials
var RawMaterialSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"name":              true,
	"current_stock":     true,
	"minimum_stock":     true,
	"required_quantity": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"customer_id":  true,
	"status":       true,
	"due_date":     true,
	"delivered_at": true,
}

// TagEventSortFields contains allowed sort fields for tag events
var TagEventSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"tag_id":           true,
	"finished_good_id": true,
	"action":           true,
	"user_id":          true,
}

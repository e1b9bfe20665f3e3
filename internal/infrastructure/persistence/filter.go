package persistence

import (
	"github.com/stockpilot/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies where clauses, ordering and pagination to the query.
// Sort and filter columns are validated against the allowlist so request
// input never reaches the SQL text.
func applyFilter(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter, allowedFields)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, allowedFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies equality filters for allowlisted columns
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool) *gorm.DB {
	for key, value := range filter.Filters {
		if allowedFields[key] {
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

package persistence

import (
	"strings"

	"github.com/cafeops/backend/internal/domain/shared"
	"gorm.io/gorm"
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

// applyPage orders and paginates a query. Order columns outside the whitelist
// fall back to defaultField. A zero page size returns every row.
func applyPage(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// searchPattern builds a case-insensitive LIKE pattern for LOWER(column) LIKE ?
func searchPattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// InventoryItemSortFields contains allowed sort fields for inventory items
var InventoryItemSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"name":              true,
	"category":          true,
	"quantity_in_stock": true,
	"unit_price":        true,
	"sku":               true,
}

// InventoryMovementSortFields contains allowed sort fields for movements
var InventoryMovementSortFields = map[string]bool{
	"created_at":    true,
	"movement_type": true,
	"quantity":      true,
}

// InventoryTransferSortFields contains allowed sort fields for transfers
var InventoryTransferSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"status":       true,
	"completed_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":                       true,
	"created_at":               true,
	"updated_at":               true,
	"name":                     true,
	"category":                 true,
	"sale_price":               true,
	"total_cost":               true,
	"profit_margin_percentage": true,
}

// ModifierGroupSortFields contains allowed sort fields for modifier groups
var ModifierGroupSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"supplier_type": true,
}

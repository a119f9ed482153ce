package persistence

import (
	"strings"
)

// ValidateOrderBy validates an "field dir" order expression against a
// whitelist of sortable columns. Returns the defaultExpr when the field is
// unknown, so filter input can never reach the ORDER BY clause verbatim.
func ValidateOrderBy(orderBy string, allowedFields map[string]bool, defaultExpr string) string {
	trimmed := strings.TrimSpace(orderBy)
	if trimmed == "" {
		return defaultExpr
	}

	parts := strings.Fields(trimmed)
	field := parts[0]
	if !allowedFields[field] {
		return defaultExpr
	}

	dir := "DESC"
	if len(parts) > 1 && strings.EqualFold(parts[1], "asc") {
		dir = "ASC"
	}
	return field + " " + dir
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"po_number":      true,
	"source_code":    true,
	"status":         true,
	"subtotal":       true,
	"date_purchased": true,
	"locked_at":      true,
}

// InventoryItemSortFields contains allowed sort fields for inventory cohorts
var InventoryItemSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"seller_sku":          true,
	"quantity":            true,
	"allocated_unit_cost": true,
	"status":              true,
}

// CatalogProductSortFields contains allowed sort fields for catalog products
var CatalogProductSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"title":          true,
	"category_name":  true,
	"platform_short": true,
	"upc":            true,
}

// EventSortFields contains allowed sort fields for append-only event tables
var EventSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"occurred_at": true,
	"event_type":  true,
	"quantity":    true,
}

package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOrderBy(t *testing.T) {
	tests := []struct {
		name     string
		orderBy  string
		expected string
	}{
		{"empty falls back to default", "", "created_at DESC"},
		{"whitespace falls back to default", "   ", "created_at DESC"},
		{"known field defaults to desc", "po_number", "po_number DESC"},
		{"explicit asc", "po_number asc", "po_number ASC"},
		{"explicit desc", "status desc", "status DESC"},
		{"direction is case insensitive", "po_number ASC", "po_number ASC"},
		{"unknown field falls back to default", "evil; DROP TABLE", "created_at DESC"},
		{"unknown direction treated as desc", "status sideways", "status DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateOrderBy(tt.orderBy, PurchaseOrderSortFields, "created_at DESC")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	// Expression input must never pass any whitelist
	for name, fields := range map[string]map[string]bool{
		"purchase_orders": PurchaseOrderSortFields,
		"inventory_items": InventoryItemSortFields,
		"products":        CatalogProductSortFields,
		"events":          EventSortFields,
	} {
		assert.False(t, fields["1=1"], name)
		assert.False(t, fields["created_at;"], name)
		assert.True(t, fields["created_at"], name)
	}
}

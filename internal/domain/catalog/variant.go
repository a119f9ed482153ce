package catalog

import (
	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Variant is a sellable listing variant of a catalog product. Market value
// is a cached snapshot refreshed from the price feed, not a live quote.
type Variant struct {
	shared.BaseEntity
	CatalogProductID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	VariantTypeCode    VariantTypeCode  `gorm:"type:varchar(30);not null"`
	CurrentMarketValue *decimal.Decimal `gorm:"type:decimal(18,4)"`
	IsActive           bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "variants"
}

// Context builds the purchasing read model from the variant and its product
func (v *Variant) Context(product *CatalogProduct) *VariantContext {
	return &VariantContext{
		VariantID:          v.ID,
		CatalogProductID:   v.CatalogProductID,
		ProductTitle:       product.Title,
		CategoryName:       product.CategoryName,
		VariantTypeCode:    v.VariantTypeCode,
		PlatformShort:      product.PlatformShort,
		CurrentMarketValue: v.CurrentMarketValue,
	}
}

package catalog

import (
	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Source represents a supplier or acquisition channel (e.g. "EB" for eBay).
// Its code prefixes every purchase-order number allocated for it.
type Source struct {
	shared.BaseEntity
	Code     string `gorm:"type:varchar(10);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(200);not null"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Source) TableName() string {
	return "sources"
}

// NewSource creates a new source
func NewSource(code, name string) (*Source, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE_CODE", "Source code cannot be empty")
	}
	if len(code) > 10 {
		return nil, shared.NewDomainError("INVALID_SOURCE_CODE", "Source code cannot exceed 10 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE_NAME", "Source name cannot be empty")
	}
	return &Source{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		IsActive:   true,
	}, nil
}

// VariantTypeCode identifies the physical packaging variant of a product
type VariantTypeCode string

const (
	VariantTypeLoose             VariantTypeCode = "LOOSE"
	VariantTypeOriginalPackaging VariantTypeCode = "ORIGINAL_PACKAGING"
	VariantTypeCIB               VariantTypeCode = "CIB"
	VariantTypeNew               VariantTypeCode = "NEW"
)

// PriceBucket maps a variant type to the price-feed bucket, or "" when the
// variant type has no feed equivalent.
func (c VariantTypeCode) PriceBucket() string {
	switch c {
	case VariantTypeLoose:
		return "Loose"
	case VariantTypeOriginalPackaging, VariantTypeCIB:
		return "CIB"
	case VariantTypeNew:
		return "New"
	}
	return ""
}

// VariantContext is the read model the purchasing and receiving flows need
// about a listing variant: identity plus display context.
type VariantContext struct {
	VariantID          uuid.UUID
	CatalogProductID   uuid.UUID
	ProductTitle       string
	CategoryName       string
	VariantTypeCode    VariantTypeCode
	PlatformShort      string
	CurrentMarketValue *decimal.Decimal
}

// IsConsole reports whether the variant belongs to the console category,
// which selects the console fee branch in the purchase calculator.
func (v VariantContext) IsConsole() bool {
	return v.CategoryName == "Console"
}

// ConditionGradeUnknown is the well-known sentinel grade code assigned at
// receipt time before manual grading occurs.
const ConditionGradeUnknown = "UNKNOWN"

// ConditionGrade represents a physical condition grade for inventory
type ConditionGrade struct {
	shared.BaseEntity
	Code        string `gorm:"type:varchar(20);not null;uniqueIndex"`
	DisplayName string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ConditionGrade) TableName() string {
	return "condition_grades"
}

// CatalogProduct is a sellable product in the catalog
type CatalogProduct struct {
	shared.BaseEntity
	Title         string `gorm:"type:varchar(300);not null"`
	CategoryName  string `gorm:"type:varchar(100);not null"`
	PlatformShort string `gorm:"type:varchar(50)"`
	ExternalPCID  string `gorm:"type:varchar(50);index"` // price-feed product id
	UPC           string `gorm:"type:varchar(20);index"`
}

// TableName returns the table name for GORM
func (CatalogProduct) TableName() string {
	return "catalog_products"
}

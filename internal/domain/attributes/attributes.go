package attributes

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DataType is the tagged kind of an attribute field. Each type owns its
// own validation rule; dispatch is by explicit table, never reflection.
type DataType string

const (
	DataTypeBool    DataType = "bool"
	DataTypeText    DataType = "text"
	DataTypeInt     DataType = "int"
	DataTypeDecimal DataType = "decimal"
	DataTypeDate    DataType = "date"
	DataTypeEnum    DataType = "enum"
)

// IsValid checks if the data type is a known kind
func (t DataType) IsValid() bool {
	_, ok := validators[t]
	return ok
}

// AttributeField describes one typed attribute a category's products carry.
// Enum fields list their allowed options; all other kinds ignore Options.
type AttributeField struct {
	shared.BaseEntity
	CategoryName string   `gorm:"type:varchar(100);not null;uniqueIndex:idx_attribute_fields_category_key,priority:1"`
	Key          string   `gorm:"type:varchar(100);not null;uniqueIndex:idx_attribute_fields_category_key,priority:2"`
	Label        string   `gorm:"type:varchar(200);not null"`
	DataType     DataType `gorm:"type:varchar(20);not null"`
	Required     bool     `gorm:"not null;default:false"`
	Options      []string `gorm:"serializer:json"`
	SortOrder    int      `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (AttributeField) TableName() string {
	return "attribute_fields"
}

// NewAttributeField creates a field descriptor
func NewAttributeField(categoryName, key, label string, dataType DataType, required bool, options []string) (*AttributeField, error) {
	if categoryName == "" || key == "" {
		return nil, shared.NewDomainError("INVALID_FIELD", "category and key are required")
	}
	if !dataType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DATA_TYPE",
			fmt.Sprintf("Unknown data_type '%s'", dataType))
	}
	if dataType == DataTypeEnum && len(options) == 0 {
		return nil, shared.NewDomainError("INVALID_FIELD", "enum fields require at least one option")
	}
	return &AttributeField{
		BaseEntity:   shared.NewBaseEntity(),
		CategoryName: categoryName,
		Key:          key,
		Label:        label,
		DataType:     dataType,
		Required:     required,
		Options:      options,
	}, nil
}

type validatorFunc func(field *AttributeField, raw string) error

// validators maps each data type to its validation rule
var validators = map[DataType]validatorFunc{
	DataTypeBool:    validateBool,
	DataTypeText:    validateText,
	DataTypeInt:     validateInt,
	DataTypeDecimal: validateDecimal,
	DataTypeDate:    validateDate,
	DataTypeEnum:    validateEnum,
}

// ValidateValue checks a raw string value against the field's data type.
// Empty values pass unless the field is required.
func (f *AttributeField) ValidateValue(raw string) error {
	if raw == "" {
		if f.Required {
			return shared.NewDomainError("MISSING_VALUE",
				fmt.Sprintf("Attribute '%s' is required", f.Key))
		}
		return nil
	}
	validate, ok := validators[f.DataType]
	if !ok {
		return shared.NewDomainError("INVALID_DATA_TYPE",
			fmt.Sprintf("Unknown data_type '%s'", f.DataType))
	}
	return validate(f, raw)
}

func validateBool(f *AttributeField, raw string) error {
	switch strings.ToLower(raw) {
	case "true", "false", "1", "0":
		return nil
	}
	return invalidValue(f, raw, "a boolean")
}

func validateText(_ *AttributeField, _ string) error {
	return nil
}

func validateInt(f *AttributeField, raw string) error {
	if _, err := strconv.Atoi(raw); err != nil {
		return invalidValue(f, raw, "an integer")
	}
	return nil
}

func validateDecimal(f *AttributeField, raw string) error {
	if _, err := decimal.NewFromString(raw); err != nil {
		return invalidValue(f, raw, "a decimal")
	}
	return nil
}

func validateDate(f *AttributeField, raw string) error {
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return invalidValue(f, raw, "a date (YYYY-MM-DD)")
	}
	return nil
}

func validateEnum(f *AttributeField, raw string) error {
	for _, opt := range f.Options {
		if opt == raw {
			return nil
		}
	}
	return invalidValue(f, raw, fmt.Sprintf("one of [%s]", strings.Join(f.Options, ", ")))
}

func invalidValue(f *AttributeField, raw, expected string) error {
	return shared.NewDomainError("INVALID_VALUE",
		fmt.Sprintf("Attribute '%s': value '%s' is not %s", f.Key, raw, expected))
}

// ValidateSet checks a full attribute map against a category's fields.
// Unknown keys are rejected; missing required fields are reported.
func ValidateSet(fields []*AttributeField, values map[string]string) error {
	byKey := make(map[string]*AttributeField, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
	}

	for key := range values {
		if _, ok := byKey[key]; !ok {
			return shared.NewDomainError("UNKNOWN_ATTRIBUTE",
				fmt.Sprintf("Unknown attribute '%s'", key))
		}
	}
	for _, f := range fields {
		if err := f.ValidateValue(values[f.Key]); err != nil {
			return err
		}
	}
	return nil
}

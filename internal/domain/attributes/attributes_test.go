package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestField(t *testing.T, dataType DataType, required bool, options []string) *AttributeField {
	field, err := NewAttributeField("Game", "test_field", "Test Field", dataType, required, options)
	require.NoError(t, err)
	return field
}

func TestDataType_IsValid(t *testing.T) {
	tests := []struct {
		dataType DataType
		isValid  bool
	}{
		{DataTypeBool, true},
		{DataTypeText, true},
		{DataTypeInt, true},
		{DataTypeDecimal, true},
		{DataTypeDate, true},
		{DataTypeEnum, true},
		{DataType("float"), false},
		{DataType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.dataType), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.dataType.IsValid())
		})
	}
}

func TestNewAttributeField_EnumRequiresOptions(t *testing.T) {
	_, err := NewAttributeField("Game", "region", "Region", DataTypeEnum, false, nil)
	assert.Error(t, err)
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name     string
		dataType DataType
		options  []string
		raw      string
		wantErr  bool
	}{
		{"bool true", DataTypeBool, nil, "true", false},
		{"bool numeric", DataTypeBool, nil, "1", false},
		{"bool invalid", DataTypeBool, nil, "yes", true},
		{"text anything", DataTypeText, nil, "anything at all", false},
		{"int ok", DataTypeInt, nil, "42", false},
		{"int negative", DataTypeInt, nil, "-7", false},
		{"int invalid", DataTypeInt, nil, "4.2", true},
		{"decimal ok", DataTypeDecimal, nil, "19.99", false},
		{"decimal invalid", DataTypeDecimal, nil, "abc", true},
		{"date ok", DataTypeDate, nil, "2024-06-15", false},
		{"date invalid", DataTypeDate, nil, "06/15/2024", true},
		{"enum match", DataTypeEnum, []string{"NTSC", "PAL"}, "PAL", false},
		{"enum case sensitive", DataTypeEnum, []string{"NTSC", "PAL"}, "pal", true},
		{"enum miss", DataTypeEnum, []string{"NTSC", "PAL"}, "SECAM", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := createTestField(t, tt.dataType, false, tt.options)
			err := field.ValidateValue(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateValue_RequiredAndEmpty(t *testing.T) {
	optional := createTestField(t, DataTypeInt, false, nil)
	assert.NoError(t, optional.ValidateValue(""))

	required := createTestField(t, DataTypeInt, true, nil)
	assert.Error(t, required.ValidateValue(""))
}

func TestValidateSet(t *testing.T) {
	region, err := NewAttributeField("Game", "region", "Region", DataTypeEnum, true, []string{"NTSC", "PAL"})
	require.NoError(t, err)
	players, err := NewAttributeField("Game", "players", "Players", DataTypeInt, false, nil)
	require.NoError(t, err)
	fields := []*AttributeField{region, players}

	assert.NoError(t, ValidateSet(fields, map[string]string{"region": "NTSC", "players": "2"}))
	assert.NoError(t, ValidateSet(fields, map[string]string{"region": "PAL"}))

	// Missing required field
	assert.Error(t, ValidateSet(fields, map[string]string{"players": "2"}))
	// Unknown key
	assert.Error(t, ValidateSet(fields, map[string]string{"region": "NTSC", "publisher": "Nintendo"}))
	// Type failure inside the set
	assert.Error(t, ValidateSet(fields, map[string]string{"region": "NTSC", "players": "two"}))
}

package attributes

import "context"

// AttributeFieldRepository defines persistence for attribute field descriptors
type AttributeFieldRepository interface {
	FindByCategory(ctx context.Context, categoryName string) ([]*AttributeField, error)
	Create(ctx context.Context, field *AttributeField) error
	Delete(ctx context.Context, categoryName, key string) error
}

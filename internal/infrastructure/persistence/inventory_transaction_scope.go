package persistence

import (
	"context"

	appinv "github.com/resale/backoffice/internal/application/inventory"
	"github.com/resale/backoffice/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryScope implements the inventory TransactionScope using GORM
// transactions. An adjustment and its event commit or roll back together.
type GormInventoryScope struct {
	db *gorm.DB
}

// NewGormInventoryScope creates a new GormInventoryScope
func NewGormInventoryScope(db *gorm.DB) *GormInventoryScope {
	return &GormInventoryScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInventoryScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

// ItemRepo returns the cohort repository scoped to the transaction
func (r *gormInventoryRepositories) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

// EventRepo returns the adjustment event repository scoped to the transaction
func (r *gormInventoryRepositories) EventRepo() inventory.InventoryEventRepository {
	return NewGormInventoryEventRepository(r.tx)
}

var (
	_ appinv.TransactionScope          = (*GormInventoryScope)(nil)
	_ appinv.TransactionalRepositories = (*gormInventoryRepositories)(nil)
)

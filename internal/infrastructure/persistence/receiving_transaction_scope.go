package persistence

import (
	"context"

	apprcv "github.com/resale/backoffice/internal/application/receiving"
	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/inventory"
	"github.com/resale/backoffice/internal/domain/purchase"
	"github.com/resale/backoffice/internal/domain/receiving"
	"gorm.io/gorm"
)

// GormReceivingScope implements the receiving TransactionScope using GORM
// transactions. A commit's line updates, cohort inserts, and event appends
// all ride the same transaction.
type GormReceivingScope struct {
	db *gorm.DB
}

// NewGormReceivingScope creates a new GormReceivingScope
func NewGormReceivingScope(db *gorm.DB) *GormReceivingScope {
	return &GormReceivingScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormReceivingScope) Execute(ctx context.Context, fn func(repos apprcv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormReceivingRepositories{tx: tx})
	})
}

type gormReceivingRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the purchase order repository scoped to the transaction
func (r *gormReceivingRepositories) OrderRepo() purchase.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// InventoryRepo returns the inventory cohort repository scoped to the transaction
func (r *gormReceivingRepositories) InventoryRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

// EventRepo returns the receiving event repository scoped to the transaction
func (r *gormReceivingRepositories) EventRepo() receiving.ReceivingEventRepository {
	return NewGormReceivingEventRepository(r.tx)
}

// GradeRepo returns the condition grade repository scoped to the transaction
func (r *gormReceivingRepositories) GradeRepo() catalog.ConditionGradeRepository {
	return NewGormConditionGradeRepository(r.tx)
}

var (
	_ apprcv.TransactionScope          = (*GormReceivingScope)(nil)
	_ apprcv.TransactionalRepositories = (*gormReceivingRepositories)(nil)
)

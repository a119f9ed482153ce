package receiving

import (
	"context"

	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/inventory"
	"github.com/resale/backoffice/internal/domain/purchase"
	"github.com/resale/backoffice/internal/domain/receiving"
)

// TransactionScope provides transactional access to the repositories a
// receiving commit touches. Everything inside one Execute call commits or
// rolls back atomically; a commit is all-or-nothing across every line.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories share the same underlying transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the purchase order repository scoped to the transaction
	OrderRepo() purchase.PurchaseOrderRepository
	// InventoryRepo returns the inventory cohort repository scoped to the transaction
	InventoryRepo() inventory.InventoryItemRepository
	// EventRepo returns the receiving event repository scoped to the transaction
	EventRepo() receiving.ReceivingEventRepository
	// GradeRepo returns the condition grade repository scoped to the transaction
	GradeRepo() catalog.ConditionGradeRepository
}

// NoOpTransactionScope is a transaction scope without real transactions.
// Useful for tests and for callers that manage atomicity elsewhere.
type NoOpTransactionScope struct {
	orderRepo     purchase.PurchaseOrderRepository
	inventoryRepo inventory.InventoryItemRepository
	eventRepo     receiving.ReceivingEventRepository
	gradeRepo     catalog.ConditionGradeRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	orderRepo purchase.PurchaseOrderRepository,
	inventoryRepo inventory.InventoryItemRepository,
	eventRepo receiving.ReceivingEventRepository,
	gradeRepo catalog.ConditionGradeRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		eventRepo:     eventRepo,
		gradeRepo:     gradeRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the purchase order repository
func (s *NoOpTransactionScope) OrderRepo() purchase.PurchaseOrderRepository {
	return s.orderRepo
}

// InventoryRepo returns the inventory cohort repository
func (s *NoOpTransactionScope) InventoryRepo() inventory.InventoryItemRepository {
	return s.inventoryRepo
}

// EventRepo returns the receiving event repository
func (s *NoOpTransactionScope) EventRepo() receiving.ReceivingEventRepository {
	return s.eventRepo
}

// GradeRepo returns the condition grade repository
func (s *NoOpTransactionScope) GradeRepo() catalog.ConditionGradeRepository {
	return s.gradeRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

package inventory

import (
	"context"

	"github.com/resale/backoffice/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// An adjustment and its event are persisted in the same transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories within a transaction
type TransactionalRepositories interface {
	// ItemRepo returns the cohort repository scoped to the transaction
	ItemRepo() inventory.InventoryItemRepository
	// EventRepo returns the adjustment event repository scoped to the transaction
	EventRepo() inventory.InventoryEventRepository
}

// NoOpTransactionScope is a transaction scope without real transactions
type NoOpTransactionScope struct {
	itemRepo  inventory.InventoryItemRepository
	eventRepo inventory.InventoryEventRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	itemRepo inventory.InventoryItemRepository,
	eventRepo inventory.InventoryEventRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{itemRepo: itemRepo, eventRepo: eventRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the cohort repository
func (s *NoOpTransactionScope) ItemRepo() inventory.InventoryItemRepository {
	return s.itemRepo
}

// EventRepo returns the adjustment event repository
func (s *NoOpTransactionScope) EventRepo() inventory.InventoryEventRepository {
	return s.eventRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

package catalog

import (
	"context"

	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/cafeops/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to catalog repositories
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction.
// ItemRepo is read-only here: recipes snapshot item prices but never move stock.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	ModifierRepo() catalog.ModifierRepository
	ItemRepo() inventory.InventoryItemRepository
}

// NoOpTransactionScope runs without a transaction; useful with mocked repositories.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	modifierRepo catalog.ModifierRepository
	itemRepo     inventory.InventoryItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	modifierRepo catalog.ModifierRepository,
	itemRepo inventory.InventoryItemRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{productRepo: productRepo, modifierRepo: modifierRepo, itemRepo: itemRepo}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }

// ModifierRepo returns the modifier repository
func (s *NoOpTransactionScope) ModifierRepo() catalog.ModifierRepository { return s.modifierRepo }

// ItemRepo returns the inventory item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.InventoryItemRepository { return s.itemRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

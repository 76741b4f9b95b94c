package persistence

import (
	"context"

	appbusiness "github.com/cafeops/backend/internal/application/business"
	appcatalog "github.com/cafeops/backend/internal/application/catalog"
	appinv "github.com/cafeops/backend/internal/application/inventory"
	"github.com/cafeops/backend/internal/domain/business"
	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/cafeops/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory TransactionScope.
// Item, movement and transfer writes inside Execute commit or roll back together.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

func (r *gormInventoryRepositories) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormInventoryRepositories) MovementRepo() inventory.InventoryMovementRepository {
	return NewGormInventoryMovementRepository(r.tx)
}

func (r *gormInventoryRepositories) TransferRepo() inventory.InventoryTransferRepository {
	return NewGormInventoryTransferRepository(r.tx)
}

// GormBusinessTransactionScope implements the business TransactionScope
type GormBusinessTransactionScope struct {
	db *gorm.DB
}

// NewGormBusinessTransactionScope creates a new GormBusinessTransactionScope
func NewGormBusinessTransactionScope(db *gorm.DB) *GormBusinessTransactionScope {
	return &GormBusinessTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormBusinessTransactionScope) Execute(ctx context.Context, fn func(repos appbusiness.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBusinessRepositories{tx: tx})
	})
}

type gormBusinessRepositories struct {
	tx *gorm.DB
}

func (r *gormBusinessRepositories) RelationshipRepo() business.RelationshipRepository {
	return NewGormRelationshipRepository(r.tx)
}

// GormCatalogTransactionScope implements the catalog TransactionScope
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCatalogRepositories{tx: tx})
	})
}

type gormCatalogRepositories struct {
	tx *gorm.DB
}

func (r *gormCatalogRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormCatalogRepositories) ModifierRepo() catalog.ModifierRepository {
	return NewGormModifierRepository(r.tx)
}

func (r *gormCatalogRepositories) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

var (
	_ appinv.TransactionScope               = (*GormInventoryTransactionScope)(nil)
	_ appinv.TransactionalRepositories      = (*gormInventoryRepositories)(nil)
	_ appbusiness.TransactionScope          = (*GormBusinessTransactionScope)(nil)
	_ appbusiness.TransactionalRepositories = (*gormBusinessRepositories)(nil)
	_ appcatalog.TransactionScope           = (*GormCatalogTransactionScope)(nil)
	_ appcatalog.TransactionalRepositories  = (*gormCatalogRepositories)(nil)
)

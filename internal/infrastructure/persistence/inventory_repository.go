package persistence

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByIDForTenant finds an inventory item by ID within a tenant
func (r *GormInventoryItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an item with SELECT ... FOR UPDATE.
// Must run inside a transaction.
func (r *GormInventoryItemRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple inventory items by their IDs
func (r *GormInventoryItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	if len(ids) == 0 {
		return []inventory.InventoryItem{}, nil
	}

	var itemModels []models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toItems(itemModels), nil
}

// LockItems locks rows of any tenants in one statement ordered by id, so two
// transfers touching the same items always acquire locks in the same order.
func (r *GormInventoryItemRepository) LockItems(ctx context.Context, keys []inventory.ItemKey) ([]inventory.InventoryItem, error) {
	if len(keys) == 0 {
		return []inventory.InventoryItem{}, nil
	}

	ids := make([]uuid.UUID, 0, len(keys))
	allowed := make(map[uuid.UUID]uuid.UUID, len(keys))
	for _, k := range keys {
		if _, dup := allowed[k.ItemID]; dup {
			continue
		}
		allowed[k.ItemID] = k.TenantID
		ids = append(ids, k.ItemID)
	}
	inventory.SortIDs(ids)

	var itemModels []models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	// an id belonging to a different tenant than requested is treated as missing
	out := make([]inventory.InventoryItem, 0, len(itemModels))
	for i := range itemModels {
		if allowed[itemModels[i].ID] == itemModels[i].TenantID {
			out = append(out, *itemModels[i].ToDomain())
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return lessID(out[a].ID, out[b].ID)
	})
	return out, nil
}

// FindActiveByNameAndUnit finds the destination match for a transferred item
func (r *GormInventoryItemRepository) FindActiveByNameAndUnit(ctx context.Context, tenantID uuid.UUID, name, unitOfMeasure string) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ? AND unit_of_measure = ? AND is_active = ?", tenantID, name, unitOfMeasure, true).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// LockNames takes a transaction-scoped advisory lock per key. Other dialects
// have no advisory locks and run single-writer, so this is a no-op there.
func (r *GormInventoryItemRepository) LockNames(ctx context.Context, keys []inventory.NameKey) error {
	if len(keys) == 0 || r.db.Dialector.Name() != "postgres" {
		return nil
	}
	names := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s := k.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		names = append(names, s)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.db.WithContext(ctx).
			Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", name).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindAllForTenant finds all inventory items for a tenant
func (r *GormInventoryItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var itemModels []models.InventoryItemModel
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	query = applyPage(query, filter, InventoryItemSortFields, "name")

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toItems(itemModels), nil
}

// CountForTenant counts inventory items for a tenant
func (r *GormInventoryItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBelowMinimum finds active items below their minimum threshold
func (r *GormInventoryItemRepository) FindBelowMinimum(ctx context.Context, tenantID uuid.UUID) ([]inventory.InventoryItem, error) {
	var itemModels []models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ? AND min_stock IS NOT NULL AND quantity_in_stock < min_stock", tenantID, true).
		Order("name ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toItems(itemModels), nil
}

// ExistsBySKU checks if a SKU is taken within a tenant
func (r *GormInventoryItemRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.InventoryItemModel{}).
		Where("tenant_id = ? AND sku = ?", tenantID, sku)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	model := models.InventoryItemModelFromDomain(item)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError(shared.CodeAlreadyExists, "An item with this SKU already exists")
		}
		return err
	}
	return nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInventoryItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		}
	}
	return query
}

func toItems(itemModels []models.InventoryItemModel) []inventory.InventoryItem {
	items := make([]inventory.InventoryItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items
}

func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// Ensure GormInventoryItemRepository implements InventoryItemRepository
var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)

package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/cafeops/backend/internal/domain/partner"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemService handles inventory item maintenance
type ItemService struct {
	itemRepo     inventory.InventoryItemRepository
	supplierRepo partner.SupplierRepository
	scope        TransactionScope
	audit        shared.AuditSink
}

// NewItemService creates a new ItemService
func NewItemService(
	itemRepo inventory.InventoryItemRepository,
	supplierRepo partner.SupplierRepository,
	scope TransactionScope,
	audit shared.AuditSink,
) *ItemService {
	if audit == nil {
		audit = shared.NopAuditSink{}
	}
	return &ItemService{
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		scope:        scope,
		audit:        audit,
	}
}

// Create creates an item and books its initial stock, if any, through the ledger
func (s *ItemService) Create(ctx context.Context, actor shared.Actor, req CreateItemRequest) (*ItemResponse, error) {
	if err := actor.Require("create inventory items", shared.RoleOwner, shared.RoleAdmin); err != nil {
		return nil, err
	}

	item, err := inventory.NewInventoryItem(actor.TenantID, req.Name, req.Category, req.UnitOfMeasure, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := item.SetThresholds(req.MinStock, req.MaxStock); err != nil {
		return nil, err
	}
	if err := item.SetTax(req.TaxPercentage, req.IncludeTax); err != nil {
		return nil, err
	}
	item.SetSKU(req.SKU)
	if err := checkSKU(ctx, s.itemRepo, actor.TenantID, item.SKU, nil); err != nil {
		return nil, err
	}
	supplierName := ""
	if req.SupplierID != nil {
		supplier, err := s.activeSupplier(ctx, actor.TenantID, *req.SupplierID)
		if err != nil {
			return nil, err
		}
		item.SetSupplier(req.SupplierID)
		supplierName = supplier.Name
	}
	item.CreatedBy = actor.UserRef()

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if req.InitialStock == nil || req.InitialStock.IsZero() {
			return nil
		}
		_, err := postMovement(ctx, repos, item, inventory.MovementSpec{
			Type:      inventory.MovementManualIn,
			Quantity:  *req.InitialStock,
			Reason:    "Initial stock",
			CreatedBy: actor.UserRef(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	supplierInfo := ""
	if supplierName != "" {
		supplierInfo = ", supplier: " + supplierName
	}
	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Inventory item created: %s (ID: %s, initial stock: %s %s%s) by %s",
		item.Name, item.ID, item.QuantityInStock.StringFixed(shared.QuantityScale), item.UnitOfMeasure,
		supplierInfo, actor.DisplayName(),
	)))

	resp := ToItemResponse(item)
	return &resp, nil
}

// GetByID retrieves an item of the actor's business
func (s *ItemService) GetByID(ctx context.Context, actor shared.Actor, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, actor.TenantID, itemID)
	if err != nil {
		return nil, notFoundItem(err, itemID)
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List retrieves items with filtering and pagination
func (s *ItemService) List(ctx context.Context, actor shared.Actor, filter ItemListFilter) ([]ItemResponse, int64, error) {
	domainFilter := newDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	domainFilter.Search = filter.Search
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	items, err := s.itemRepo.FindAllForTenant(ctx, actor.TenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountForTenant(ctx, actor.TenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// ListLowStock returns active items whose stock is under their minimum
func (s *ItemService) ListLowStock(ctx context.Context, actor shared.Actor) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindBelowMinimum(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// Update changes the descriptive and pricing fields of an item
func (s *ItemService) Update(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	if err := actor.Require("update inventory items", shared.RoleOwner, shared.RoleAdmin); err != nil {
		return nil, err
	}

	if req.SupplierID != nil {
		if _, err := s.activeSupplier(ctx, actor.TenantID, *req.SupplierID); err != nil {
			return nil, err
		}
	}

	var (
		item    *inventory.InventoryItem
		changes []string
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, actor.TenantID, itemID)
		if err != nil {
			return notFoundItem(err, itemID)
		}
		changes, err = applyUpdate(ctx, repos.ItemRepo(), item, req)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		item.IncrementVersion()
		return repos.ItemRepo().Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
			"Inventory item updated: %s (ID: %s). Changes: %s. Updated by %s",
			item.Name, item.ID, strings.Join(changes, ", "), actor.DisplayName(),
		)))
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// applyUpdate changes item in place and returns the names of the changed fields.
// The supplier reference has already been validated.
func applyUpdate(ctx context.Context, repo inventory.InventoryItemRepository, item *inventory.InventoryItem, req UpdateItemRequest) ([]string, error) {
	var changes []string

	name, category, unit := item.Name, item.Category, item.UnitOfMeasure
	if req.Name != nil && *req.Name != name {
		name = *req.Name
		changes = append(changes, "name")
	}
	if req.Category != nil && *req.Category != category {
		category = *req.Category
		changes = append(changes, "category")
	}
	if req.UnitOfMeasure != nil && *req.UnitOfMeasure != unit {
		unit = *req.UnitOfMeasure
		changes = append(changes, "unit_of_measure")
	}
	if err := item.SetDetails(name, category, unit); err != nil {
		return nil, err
	}

	if req.SKU != nil {
		before := item.SKU
		item.SetSKU(req.SKU)
		if !equalStringPtr(before, item.SKU) {
			if err := checkSKU(ctx, repo, item.TenantID, item.SKU, &item.ID); err != nil {
				return nil, err
			}
			changes = append(changes, "sku")
		}
	}
	if req.SupplierID != nil && !equalUUIDPtr(item.SupplierID, req.SupplierID) {
		item.SetSupplier(req.SupplierID)
		changes = append(changes, "supplier")
	}
	if req.UnitPrice != nil && !req.UnitPrice.Equal(item.UnitPrice) {
		if err := item.SetUnitPrice(*req.UnitPrice); err != nil {
			return nil, err
		}
		changes = append(changes, "unit_price")
	}
	if req.MinStock != nil || req.MaxStock != nil {
		minStock, maxStock := item.MinStock, item.MaxStock
		if req.MinStock != nil {
			minStock = req.MinStock
		}
		if req.MaxStock != nil {
			maxStock = req.MaxStock
		}
		if err := item.SetThresholds(minStock, maxStock); err != nil {
			return nil, err
		}
		changes = append(changes, "thresholds")
	}
	if req.TaxPercentage != nil || req.IncludeTax != nil {
		pct, include := item.TaxPercentage, item.IncludeTax
		if req.TaxPercentage != nil {
			pct = req.TaxPercentage
		}
		if req.IncludeTax != nil {
			include = *req.IncludeTax
		}
		if err := item.SetTax(pct, include); err != nil {
			return nil, err
		}
		changes = append(changes, "tax")
	}
	return changes, nil
}

// Deactivate soft-deletes an item. Its movements stay in the ledger.
func (s *ItemService) Deactivate(ctx context.Context, actor shared.Actor, itemID uuid.UUID) error {
	if err := actor.Require("deactivate inventory items", shared.RoleOwner, shared.RoleAdmin); err != nil {
		return err
	}

	var item *inventory.InventoryItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, actor.TenantID, itemID)
		if err != nil {
			return notFoundItem(err, itemID)
		}
		if err := item.Deactivate(); err != nil {
			return err
		}
		return repos.ItemRepo().Save(ctx, item)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Inventory item deactivated: %s (ID: %s, stock: %s %s) by %s",
		item.Name, item.ID, item.QuantityInStock.StringFixed(shared.QuantityScale), item.UnitOfMeasure, actor.DisplayName(),
	)))
	return nil
}

func checkSKU(ctx context.Context, repo inventory.InventoryItemRepository, tenantID uuid.UUID, sku *string, excludeID *uuid.UUID) error {
	if sku == nil {
		return nil
	}
	exists, err := repo.ExistsBySKU(ctx, tenantID, *sku, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("An item with SKU '%s' already exists", *sku)).
			WithDetail("sku", *sku)
	}
	return nil
}

func (s *ItemService) activeSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Supplier %s", supplierID))
		}
		return nil, err
	}
	if !supplier.IsActive {
		return nil, shared.NewValidationError(fmt.Sprintf("Supplier '%s' is inactive", supplier.Name))
	}
	return supplier, nil
}

// newDomainFilter applies paging defaults the way every list endpoint expects them
func newDomainFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	return f
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var catalogRoles = []shared.Role{shared.RoleOwner, shared.RoleAdmin, shared.RoleCook}

// ProductService handles recipe costing and product maintenance
type ProductService struct {
	productRepo catalog.ProductRepository
	scope       TransactionScope
	audit       shared.AuditSink
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, scope TransactionScope, audit shared.AuditSink) *ProductService {
	if audit == nil {
		audit = shared.NopAuditSink{}
	}
	return &ProductService{productRepo: productRepo, scope: scope, audit: audit}
}

// Create prices a new product from its ingredients. Each ingredient's unit
// cost is a snapshot of the item's current unit price.
func (s *ProductService) Create(ctx context.Context, actor shared.Actor, req CreateProductRequest) (*ProductResponse, error) {
	if err := actor.Require("create products", catalogRoles...); err != nil {
		return nil, err
	}

	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		costs, err := resolveIngredientCosts(ctx, repos.ItemRepo(), actor.TenantID, req.Ingredients)
		if err != nil {
			return err
		}
		product, err = catalog.NewProduct(actor.TenantID, catalog.ProductDetails{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
		}, req.SalePrice, req.ProfitMarginPercentage, costs)
		if err != nil {
			return err
		}
		product.CreatedBy = actor.UserRef()
		return repos.ProductRepo().Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Product created: %s (ID: %s, sale price: %s, total cost: %s, margin: %s%%, %d ingredients) by %s",
		product.Name, product.ID,
		product.SalePrice.StringFixed(shared.MoneyScale), product.TotalCost.StringFixed(shared.MoneyScale),
		product.ProfitMarginPercentage.StringFixed(shared.MoneyScale), len(product.Ingredients), actor.DisplayName(),
	)))
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product with its ingredients
func (s *ProductService) GetByID(ctx context.Context, actor shared.Actor, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, actor.TenantID, productID)
	if err != nil {
		return nil, notFoundProduct(err, productID)
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, actor shared.Actor, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	products, err := s.productRepo.FindAllForTenant(ctx, actor.TenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, actor.TenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update changes descriptive fields and the price. A new sale price must
// still cover the total cost.
func (s *ProductService) Update(ctx context.Context, actor shared.Actor, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if err := actor.Require("update products", catalogRoles...); err != nil {
		return nil, err
	}

	var (
		product *catalog.Product
		changes []string
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByIDForUpdate(ctx, actor.TenantID, productID)
		if err != nil {
			return notFoundProduct(err, productID)
		}

		details := catalog.ProductDetails{
			Name:        product.Name,
			Description: product.Description,
			Category:    product.Category,
			ImageURL:    product.ImageURL,
		}
		changes = appendChange(changes, "name", &details.Name, req.Name)
		changes = appendChange(changes, "description", &details.Description, req.Description)
		changes = appendChange(changes, "category", &details.Category, req.Category)
		changes = appendChange(changes, "image_url", &details.ImageURL, req.ImageURL)
		if err := product.SetDetails(details); err != nil {
			return err
		}

		if req.SalePrice != nil || req.ProfitMarginPercentage != nil {
			salePrice := product.SalePrice
			if req.SalePrice != nil {
				salePrice = *req.SalePrice
			}
			before, beforeMargin := product.SalePrice, product.ProfitMarginPercentage
			if err := product.Reprice(salePrice, req.ProfitMarginPercentage); err != nil {
				return err
			}
			if !before.Equal(product.SalePrice) {
				changes = append(changes, fmt.Sprintf("sale_price: %s -> %s",
					before.StringFixed(shared.MoneyScale), product.SalePrice.StringFixed(shared.MoneyScale)))
			}
			if !beforeMargin.Equal(product.ProfitMarginPercentage) {
				changes = append(changes, fmt.Sprintf("profit_margin_percentage: %s -> %s",
					beforeMargin.StringFixed(shared.MoneyScale), product.ProfitMarginPercentage.StringFixed(shared.MoneyScale)))
			}
		}
		if len(changes) == 0 {
			return nil
		}
		return repos.ProductRepo().Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
			"Product updated: %s (ID: %s). Changes: %s. Updated by %s",
			product.Name, product.ID, strings.Join(changes, ", "), actor.DisplayName(),
		)))
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ReplaceIngredients swaps the whole recipe and re-derives cost and margin.
// The current sale price must cover the new cost; raise it first otherwise.
func (s *ProductService) ReplaceIngredients(ctx context.Context, actor shared.Actor, productID uuid.UUID, req ReplaceIngredientsRequest) (*ProductResponse, error) {
	if err := actor.Require("update product ingredients", catalogRoles...); err != nil {
		return nil, err
	}

	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByIDForUpdate(ctx, actor.TenantID, productID)
		if err != nil {
			return notFoundProduct(err, productID)
		}
		costs, err := resolveIngredientCosts(ctx, repos.ItemRepo(), actor.TenantID, req.Ingredients)
		if err != nil {
			return err
		}
		if err := product.ReplaceIngredients(costs); err != nil {
			return err
		}
		return repos.ProductRepo().ReplaceIngredients(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Ingredients updated for product: %s (ID: %s). New total cost: %s. Updated by %s",
		product.Name, product.ID, product.TotalCost.StringFixed(shared.MoneyScale), actor.DisplayName(),
	)))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Deactivate soft-deletes a product
func (s *ProductService) Deactivate(ctx context.Context, actor shared.Actor, productID uuid.UUID) (*ProductResponse, error) {
	if err := actor.Require("deactivate products", catalogRoles...); err != nil {
		return nil, err
	}

	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByIDForUpdate(ctx, actor.TenantID, productID)
		if err != nil {
			return notFoundProduct(err, productID)
		}
		if err := product.Deactivate(); err != nil {
			return err
		}
		return repos.ProductRepo().Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Product deactivated: %s (ID: %s) by %s", product.Name, product.ID, actor.DisplayName(),
	)))
	resp := ToProductResponse(product)
	return &resp, nil
}

// resolveIngredientCosts checks the requested items and snapshots their unit prices.
// Duplicates are rejected before any lookup.
func resolveIngredientCosts(ctx context.Context, itemRepo inventory.InventoryItemRepository, tenantID uuid.UUID, reqs []IngredientRequest) ([]catalog.IngredientCost, error) {
	if len(reqs) == 0 {
		return nil, shared.NewValidationError("A product needs at least one ingredient")
	}
	ids := make([]uuid.UUID, len(reqs))
	for i, r := range reqs {
		ids[i] = r.InventoryItemID
	}
	if err := catalog.CheckDuplicateItems(ids); err != nil {
		return nil, err
	}

	items, err := activeItems(ctx, itemRepo, tenantID, ids)
	if err != nil {
		return nil, err
	}
	costs := make([]catalog.IngredientCost, len(reqs))
	for i, r := range reqs {
		item := items[r.InventoryItemID]
		costs[i] = catalog.IngredientCost{
			InventoryItemID: item.ID,
			ItemName:        item.Name,
			Quantity:        r.Quantity,
			UnitPrice:       item.UnitPrice,
		}
	}
	return costs, nil
}

// activeItems loads the given items of a tenant and fails on any missing or inactive one
func activeItems(ctx context.Context, itemRepo inventory.InventoryItemRepository, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*inventory.InventoryItem, error) {
	found, err := itemRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.InventoryItem, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, inventory.NewItemNotFoundError(id)
		}
		if !item.IsActive {
			return nil, inventory.NewInactiveItemError(item)
		}
	}
	return byID, nil
}

func appendChange(changes []string, field string, current *string, next *string) []string {
	if next == nil || strings.TrimSpace(*next) == *current {
		return changes
	}
	changes = append(changes, fmt.Sprintf("%s: '%s' -> '%s'", field, *current, strings.TrimSpace(*next)))
	*current = *next
	return changes
}

func notFoundProduct(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(fmt.Sprintf("Product %s", id)).WithDetail("product_id", id.String())
	}
	return err
}

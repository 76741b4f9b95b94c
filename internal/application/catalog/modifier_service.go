package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ModifierService manages modifier groups, modifiers and their assignment to products
type ModifierService struct {
	modifierRepo catalog.ModifierRepository
	productRepo  catalog.ProductRepository
	scope        TransactionScope
	audit        shared.AuditSink
}

// NewModifierService creates a new ModifierService
func NewModifierService(
	modifierRepo catalog.ModifierRepository,
	productRepo catalog.ProductRepository,
	scope TransactionScope,
	audit shared.AuditSink,
) *ModifierService {
	if audit == nil {
		audit = shared.NopAuditSink{}
	}
	return &ModifierService{modifierRepo: modifierRepo, productRepo: productRepo, scope: scope, audit: audit}
}

// CreateGroup creates a modifier group
func (s *ModifierService) CreateGroup(ctx context.Context, actor shared.Actor, req CreateModifierGroupRequest) (*ModifierGroupResponse, error) {
	if err := actor.Require("manage modifiers", catalogRoles...); err != nil {
		return nil, err
	}
	group, err := catalog.NewModifierGroup(actor.TenantID, catalog.ModifierGroupDetails{
		Name:          req.Name,
		Description:   req.Description,
		AllowMultiple: req.AllowMultiple,
		IsRequired:    req.IsRequired,
	})
	if err != nil {
		return nil, err
	}
	group.CreatedBy = actor.UserRef()
	if err := s.modifierRepo.SaveGroup(ctx, group); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Modifier group created: %s (ID: %s) by %s", group.Name, group.ID, actor.DisplayName(),
	)))
	resp := ToModifierGroupResponse(group)
	return &resp, nil
}

// GetGroup retrieves a modifier group
func (s *ModifierService) GetGroup(ctx context.Context, actor shared.Actor, groupID uuid.UUID) (*ModifierGroupResponse, error) {
	group, err := s.modifierRepo.FindGroupByIDForTenant(ctx, actor.TenantID, groupID)
	if err != nil {
		return nil, notFoundGroup(err, groupID)
	}
	resp := ToModifierGroupResponse(group)
	return &resp, nil
}

// ListGroups lists the tenant's modifier groups with their modifier counts
func (s *ModifierService) ListGroups(ctx context.Context, actor shared.Actor, activeOnly bool) ([]ModifierGroupResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 0
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	if activeOnly {
		filter.Filters["is_active"] = true
	}
	groups, err := s.modifierRepo.FindGroupsForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ModifierGroupResponse, len(groups))
	for i := range groups {
		out[i] = ToModifierGroupResponse(&groups[i])
	}
	return out, nil
}

// UpdateGroup applies a partial update to a group
func (s *ModifierService) UpdateGroup(ctx context.Context, actor shared.Actor, groupID uuid.UUID, req UpdateModifierGroupRequest) (*ModifierGroupResponse, error) {
	if err := actor.Require("manage modifiers", catalogRoles...); err != nil {
		return nil, err
	}
	group, err := s.modifierRepo.FindGroupByIDForTenant(ctx, actor.TenantID, groupID)
	if err != nil {
		return nil, notFoundGroup(err, groupID)
	}

	d := catalog.ModifierGroupDetails{
		Name:          group.Name,
		Description:   group.Description,
		AllowMultiple: group.AllowMultiple,
		IsRequired:    group.IsRequired,
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.AllowMultiple != nil {
		d.AllowMultiple = *req.AllowMultiple
	}
	if req.IsRequired != nil {
		d.IsRequired = *req.IsRequired
	}
	if err := group.Update(d); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		group.SetActive(*req.IsActive)
	}
	if err := s.modifierRepo.SaveGroup(ctx, group); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Modifier group updated: %s (ID: %s) by %s", group.Name, group.ID, actor.DisplayName(),
	)))
	resp := ToModifierGroupResponse(group)
	return &resp, nil
}

// Create adds a modifier to a group. Its items must be active inventory items
// of the tenant and its name unique within the group.
func (s *ModifierService) Create(ctx context.Context, actor shared.Actor, req CreateModifierRequest) (*ModifierResponse, error) {
	if err := actor.Require("manage modifiers", catalogRoles...); err != nil {
		return nil, err
	}

	var modifier *catalog.Modifier
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		group, err := repos.ModifierRepo().FindGroupByIDForTenant(ctx, actor.TenantID, req.GroupID)
		if err != nil {
			return notFoundGroup(err, req.GroupID)
		}
		if err := checkModifierName(ctx, repos.ModifierRepo(), group.ID, req.Name, nil); err != nil {
			return err
		}

		lines := make([]catalog.ModifierItemLine, len(req.Items))
		ids := make([]uuid.UUID, len(req.Items))
		for i, it := range req.Items {
			lines[i] = catalog.ModifierItemLine{InventoryItemID: it.InventoryItemID, Quantity: it.Quantity}
			ids[i] = it.InventoryItemID
		}
		if err := catalog.CheckDuplicateItems(ids); err != nil {
			return err
		}
		items, err := activeItems(ctx, repos.ItemRepo(), actor.TenantID, ids)
		if err != nil {
			return err
		}

		modifier, err = catalog.NewModifier(group, catalog.ModifierDetails{
			Name:        req.Name,
			Description: req.Description,
			PriceExtra:  req.PriceExtra,
		}, lines)
		if err != nil {
			return err
		}
		for i := range modifier.Items {
			modifier.Items[i].ItemName = items[modifier.Items[i].InventoryItemID].Name
		}
		modifier.CreatedBy = actor.UserRef()
		return repos.ModifierRepo().Create(ctx, modifier)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Modifier created: %s in group %s (ID: %s, extra price: %s) by %s",
		modifier.Name, modifier.GroupName, modifier.ID, modifier.PriceExtra.StringFixed(shared.MoneyScale), actor.DisplayName(),
	)))
	resp := ToModifierResponse(modifier)
	return &resp, nil
}

// GetByID retrieves a modifier with its items
func (s *ModifierService) GetByID(ctx context.Context, actor shared.Actor, modifierID uuid.UUID) (*ModifierResponse, error) {
	m, err := s.modifierRepo.FindByIDForTenant(ctx, actor.TenantID, modifierID)
	if err != nil {
		return nil, notFoundModifier(err, modifierID)
	}
	resp := ToModifierResponse(m)
	return &resp, nil
}

// ListByGroup lists the modifiers of a group
func (s *ModifierService) ListByGroup(ctx context.Context, actor shared.Actor, groupID uuid.UUID) ([]ModifierResponse, error) {
	if _, err := s.modifierRepo.FindGroupByIDForTenant(ctx, actor.TenantID, groupID); err != nil {
		return nil, notFoundGroup(err, groupID)
	}
	modifiers, err := s.modifierRepo.FindByGroup(ctx, actor.TenantID, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]ModifierResponse, len(modifiers))
	for i := range modifiers {
		out[i] = ToModifierResponse(&modifiers[i])
	}
	return out, nil
}

// Update applies a partial update. Item effects cannot change; create a new
// modifier instead.
func (s *ModifierService) Update(ctx context.Context, actor shared.Actor, modifierID uuid.UUID, req UpdateModifierRequest) (*ModifierResponse, error) {
	if err := actor.Require("manage modifiers", catalogRoles...); err != nil {
		return nil, err
	}

	var modifier *catalog.Modifier
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		modifier, err = repos.ModifierRepo().FindByIDForTenant(ctx, actor.TenantID, modifierID)
		if err != nil {
			return notFoundModifier(err, modifierID)
		}

		d := catalog.ModifierDetails{
			Name:        modifier.Name,
			Description: modifier.Description,
			PriceExtra:  modifier.PriceExtra,
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) != modifier.Name {
			if err := checkModifierName(ctx, repos.ModifierRepo(), modifier.GroupID, *req.Name, &modifier.ID); err != nil {
				return err
			}
			d.Name = *req.Name
		}
		if req.Description != nil {
			d.Description = *req.Description
		}
		if req.PriceExtra != nil {
			d.PriceExtra = *req.PriceExtra
		}
		if err := modifier.Update(d); err != nil {
			return err
		}
		if req.IsActive != nil {
			modifier.SetActive(*req.IsActive)
		}
		return repos.ModifierRepo().Update(ctx, modifier)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Modifier updated: %s (ID: %s) by %s", modifier.Name, modifier.ID, actor.DisplayName(),
	)))
	resp := ToModifierResponse(modifier)
	return &resp, nil
}

// Assign makes a modifier available on a product. Every item the modifier
// touches must already be an ingredient of the product.
func (s *ModifierService) Assign(ctx context.Context, actor shared.Actor, productID uuid.UUID, req AssignModifierRequest) (*ProductModifierResponse, error) {
	if err := actor.Require("assign modifiers", catalogRoles...); err != nil {
		return nil, err
	}

	var (
		product  *catalog.Product
		modifier *catalog.Modifier
		pm       *catalog.ProductModifier
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByIDForUpdate(ctx, actor.TenantID, productID)
		if err != nil {
			return notFoundProduct(err, productID)
		}
		modifier, err = repos.ModifierRepo().FindByIDForTenant(ctx, actor.TenantID, req.ModifierID)
		if err != nil {
			return notFoundModifier(err, req.ModifierID)
		}

		existing, err := repos.ModifierRepo().FindAssignment(ctx, product.ID, modifier.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError(shared.CodeAlreadyExists,
				fmt.Sprintf("Modifier '%s' is already assigned to product '%s'", modifier.Name, product.Name)).
				WithDetail("product_id", product.ID.String()).
				WithDetail("modifier_id", modifier.ID.String())
		}

		pm, err = catalog.Assign(product, modifier)
		if err != nil {
			return err
		}
		return repos.ModifierRepo().Assign(ctx, pm)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Modifier %s assigned to product %s (ID: %s) by %s",
		modifier.Name, product.Name, product.ID, actor.DisplayName(),
	)))
	resp := ToProductModifierResponse(&catalog.AssignedModifier{
		ProductModifier: *pm,
		ModifierName:    modifier.Name,
		GroupName:       modifier.GroupName,
		PriceExtra:      modifier.PriceExtra,
	})
	return &resp, nil
}

// ListForProduct lists the modifiers assigned to a product
func (s *ModifierService) ListForProduct(ctx context.Context, actor shared.Actor, productID uuid.UUID) ([]ProductModifierResponse, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, actor.TenantID, productID); err != nil {
		return nil, notFoundProduct(err, productID)
	}
	assigned, err := s.modifierRepo.FindForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]ProductModifierResponse, len(assigned))
	for i := range assigned {
		out[i] = ToProductModifierResponse(&assigned[i])
	}
	return out, nil
}

// Unassign removes a modifier from a product
func (s *ModifierService) Unassign(ctx context.Context, actor shared.Actor, productID, modifierID uuid.UUID) error {
	if err := actor.Require("assign modifiers", catalogRoles...); err != nil {
		return err
	}

	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByIDForUpdate(ctx, actor.TenantID, productID)
		if err != nil {
			return notFoundProduct(err, productID)
		}
		if _, err := repos.ModifierRepo().FindAssignment(ctx, productID, modifierID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError(fmt.Sprintf("Modifier %s is not assigned to product %s", modifierID, productID)).
					WithDetail("product_id", productID.String()).
					WithDetail("modifier_id", modifierID.String())
			}
			return err
		}
		return repos.ModifierRepo().Unassign(ctx, productID, modifierID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Modifier %s removed from product %s (ID: %s) by %s",
		modifierID, product.Name, product.ID, actor.DisplayName(),
	)))
	return nil
}

func checkModifierName(ctx context.Context, repo catalog.ModifierRepository, groupID uuid.UUID, name string, excludeID *uuid.UUID) error {
	name = strings.TrimSpace(name)
	exists, err := repo.NameExistsInGroup(ctx, groupID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("A modifier named '%s' already exists in this group", name)).
			WithDetail("group_id", groupID.String())
	}
	return nil
}

func notFoundGroup(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(fmt.Sprintf("Modifier group %s", id)).WithDetail("group_id", id.String())
	}
	return err
}

func notFoundModifier(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(fmt.Sprintf("Modifier %s", id)).WithDetail("modifier_id", id.String())
	}
	return err
}

package partner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cafeops/backend/internal/domain/partner"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var supplierRoles = []shared.Role{shared.RoleOwner, shared.RoleAdmin}

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	audit        shared.AuditSink
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, audit shared.AuditSink) *SupplierService {
	if audit == nil {
		audit = shared.NopAuditSink{}
	}
	return &SupplierService{
		supplierRepo: supplierRepo,
		audit:        audit,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, actor shared.Actor, req CreateSupplierRequest) (*SupplierResponse, error) {
	if err := actor.Require("manage suppliers", supplierRoles...); err != nil {
		return nil, err
	}

	supplier, err := partner.NewSupplier(actor.TenantID, partner.SupplierDetails{
		Name:                req.Name,
		SupplierType:        req.SupplierType,
		TaxID:               req.TaxID,
		LegalRepresentative: req.LegalRepresentative,
		Phone:               req.Phone,
		Email:               req.Email,
		Address:             req.Address,
	})
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, supplier, nil); err != nil {
		return nil, err
	}
	supplier.CreatedBy = actor.UserRef()

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Supplier created: %s (ID: %s) by %s", supplier.Name, supplier.ID, actor.DisplayName(),
	)))
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, actor shared.Actor, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, actor.TenantID, supplierID)
	if err != nil {
		return nil, notFoundSupplier(err, supplierID)
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves a list of suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, actor shared.Actor, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, actor.TenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, actor.TenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSupplierResponses(suppliers), total, nil
}

// Update applies a partial update to a supplier
func (s *SupplierService) Update(ctx context.Context, actor shared.Actor, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	if err := actor.Require("manage suppliers", supplierRoles...); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, actor.TenantID, supplierID)
	if err != nil {
		return nil, notFoundSupplier(err, supplierID)
	}

	d := partner.SupplierDetails{
		Name:                supplier.Name,
		SupplierType:        supplier.SupplierType,
		TaxID:               supplier.TaxID,
		LegalRepresentative: supplier.LegalRepresentative,
		Phone:               supplier.Phone,
		Email:               supplier.Email,
		Address:             supplier.Address,
	}
	overlay(&d.Name, req.Name)
	overlay(&d.SupplierType, req.SupplierType)
	overlay(&d.TaxID, req.TaxID)
	overlay(&d.LegalRepresentative, req.LegalRepresentative)
	overlay(&d.Phone, req.Phone)
	overlay(&d.Email, req.Email)
	overlay(&d.Address, req.Address)
	if err := supplier.Update(d); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, supplier, &supplier.ID); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Supplier updated: %s (ID: %s) by %s", supplier.Name, supplier.ID, actor.DisplayName(),
	)))
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Deactivate marks a supplier inactive. Items keep their reference but new
// items cannot be linked to it.
func (s *SupplierService) Deactivate(ctx context.Context, actor shared.Actor, supplierID uuid.UUID) (*SupplierResponse, error) {
	if err := actor.Require("manage suppliers", supplierRoles...); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, actor.TenantID, supplierID)
	if err != nil {
		return nil, notFoundSupplier(err, supplierID)
	}
	if err := supplier.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Supplier deactivated: %s (ID: %s) by %s", supplier.Name, supplier.ID, actor.DisplayName(),
	)))
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// DeletePermanently removes a supplier. Only the owner may do it, and only
// while no inventory item references the supplier; deactivate it otherwise.
func (s *SupplierService) DeletePermanently(ctx context.Context, actor shared.Actor, supplierID uuid.UUID) error {
	if err := actor.Require("delete suppliers permanently", shared.RoleOwner); err != nil {
		return err
	}
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, actor.TenantID, supplierID)
	if err != nil {
		return notFoundSupplier(err, supplierID)
	}
	refs, err := s.supplierRepo.CountItemReferences(ctx, actor.TenantID, supplierID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return shared.NewInvalidStateError(fmt.Sprintf(
			"Supplier %s is referenced by %d inventory items; deactivate it instead", supplier.Name, refs,
		)).WithDetail("supplier_id", supplierID.String())
	}

	if err := s.supplierRepo.Delete(ctx, actor.TenantID, supplierID); err != nil {
		return notFoundSupplier(err, supplierID)
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Supplier permanently deleted: %s (ID: %s, Tax ID: %s) by %s",
		supplier.Name, supplier.ID, supplier.TaxID, actor.DisplayName(),
	)))
	return nil
}

func (s *SupplierService) checkUnique(ctx context.Context, supplier *partner.Supplier, excludeID *uuid.UUID) error {
	if supplier.Email != "" {
		exists, err := s.supplierRepo.ExistsByEmail(ctx, supplier.TenantID, supplier.Email, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Supplier with this email already exists")
		}
	}
	if supplier.TaxID != "" {
		exists, err := s.supplierRepo.ExistsByTaxID(ctx, supplier.TenantID, supplier.TaxID, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Supplier with this tax ID already exists")
		}
	}
	return nil
}

func overlay(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func notFoundSupplier(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(fmt.Sprintf("Supplier %s", id)).WithDetail("supplier_id", id.String())
	}
	return err
}

package partner

import (
	"net/mail"
	"strings"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Supplier is a vendor an inventory item can be sourced from
type Supplier struct {
	shared.TenantAggregateRoot
	Name                string
	SupplierType        string // free text: produce, beverages, ...
	TaxID               string
	LegalRepresentative string
	Phone               string
	Email               string
	Address             string
	IsActive            bool
}

// SupplierDetails carries the editable fields of a supplier
type SupplierDetails struct {
	Name                string
	SupplierType        string
	TaxID               string
	LegalRepresentative string
	Phone               string
	Email               string
	Address             string
}

// NewSupplier creates an active supplier
func NewSupplier(tenantID uuid.UUID, details SupplierDetails) (*Supplier, error) {
	s := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	if err := s.Update(details); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the editable fields
func (s *Supplier) Update(d SupplierDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("Supplier name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewValidationError("Supplier name cannot exceed 255 characters")
	}
	email := strings.TrimSpace(d.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("Invalid supplier email: " + email)
		}
	}
	s.Name = name
	s.SupplierType = strings.TrimSpace(d.SupplierType)
	s.TaxID = strings.TrimSpace(d.TaxID)
	s.LegalRepresentative = strings.TrimSpace(d.LegalRepresentative)
	s.Phone = strings.TrimSpace(d.Phone)
	s.Email = strings.ToLower(email)
	s.Address = strings.TrimSpace(d.Address)
	s.IncrementVersion()
	return nil
}

// Deactivate marks the supplier inactive
func (s *Supplier) Deactivate() error {
	if !s.IsActive {
		return shared.NewInvalidStateError("Supplier is already inactive")
	}
	s.IsActive = false
	s.IncrementVersion()
	return nil
}

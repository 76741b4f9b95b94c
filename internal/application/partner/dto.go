package partner

import (
	"time"

	"github.com/cafeops/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateSupplierRequest represents a request to create a new supplier
type CreateSupplierRequest struct {
	Name                string `json:"name" binding:"required,min=1,max=255"`
	SupplierType        string `json:"supplier_type" binding:"max=50"`
	TaxID               string `json:"tax_id" binding:"max=50"`
	LegalRepresentative string `json:"legal_representative" binding:"max=255"`
	Phone               string `json:"phone" binding:"max=50"`
	Email               string `json:"email" binding:"omitempty,email,max=255"`
	Address             string `json:"address" binding:"max=500"`
}

// UpdateSupplierRequest represents a partial supplier update
type UpdateSupplierRequest struct {
	Name                *string `json:"name" binding:"omitempty,min=1,max=255"`
	SupplierType        *string `json:"supplier_type" binding:"omitempty,max=50"`
	TaxID               *string `json:"tax_id" binding:"omitempty,max=50"`
	LegalRepresentative *string `json:"legal_representative" binding:"omitempty,max=255"`
	Phone               *string `json:"phone" binding:"omitempty,max=50"`
	Email               *string `json:"email" binding:"omitempty,max=255"`
	Address             *string `json:"address" binding:"omitempty,max=500"`
}

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID                  uuid.UUID `json:"id"`
	TenantID            uuid.UUID `json:"tenant_id"`
	Name                string    `json:"name"`
	SupplierType        string    `json:"supplier_type,omitempty"`
	TaxID               string    `json:"tax_id,omitempty"`
	LegalRepresentative string    `json:"legal_representative,omitempty"`
	Phone               string    `json:"phone,omitempty"`
	Email               string    `json:"email,omitempty"`
	Address             string    `json:"address,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	Version             int       `json:"version"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:                  s.ID,
		TenantID:            s.TenantID,
		Name:                s.Name,
		SupplierType:        s.SupplierType,
		TaxID:               s.TaxID,
		LegalRepresentative: s.LegalRepresentative,
		Phone:               s.Phone,
		Email:               s.Email,
		Address:             s.Address,
		IsActive:            s.IsActive,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
		Version:             s.Version,
	}
}

// ToSupplierResponses converts a slice of domain Suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}

package models

import (
	"github.com/cafeops/backend/internal/domain/partner"
)

// SupplierModel is the persistence model for the Supplier aggregate root.
type SupplierModel struct {
	TenantAggregateModel
	Name                string `gorm:"type:varchar(255);not null"`
	SupplierType        string `gorm:"type:varchar(50)"`
	TaxID               string `gorm:"column:tax_id;type:varchar(50);index"`
	LegalRepresentative string `gorm:"type:varchar(255)"`
	Phone               string `gorm:"type:varchar(50)"`
	Email               string `gorm:"type:varchar(255);index"`
	Address             string `gorm:"type:text"`
	IsActive            bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		SupplierType:        m.SupplierType,
		TaxID:               m.TaxID,
		LegalRepresentative: m.LegalRepresentative,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Name = s.Name
	m.SupplierType = s.SupplierType
	m.TaxID = s.TaxID
	m.LegalRepresentative = s.LegalRepresentative
	m.Phone = s.Phone
	m.Email = s.Email
	m.Address = s.Address
	m.IsActive = s.IsActive
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier entity.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}

package models

import (
	"bytes"

	"github.com/cafeops/backend/internal/domain/business"
	"github.com/google/uuid"
)

// BusinessModel is the persistence model for tenants.
type BusinessModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BusinessModel) TableName() string {
	return "businesses"
}

// ToDomain converts the persistence model to a domain Business.
func (m *BusinessModel) ToDomain() *business.Business {
	return &business.Business{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		IsActive:   m.IsActive,
	}
}

// BusinessModelFromDomain creates a new persistence model from a domain Business.
func BusinessModelFromDomain(b *business.Business) *BusinessModel {
	m := &BusinessModel{Name: b.Name, IsActive: b.IsActive}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}

// RelationshipModel is the persistence model for business relationships.
// PairLow and PairHigh hold the two business ids in byte order so that a
// single unique index rejects the pair in either direction.
type RelationshipModel struct {
	BaseModel
	RequesterBusinessID uuid.UUID                   `gorm:"type:uuid;not null;index"`
	TargetBusinessID    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	PairLow             uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_business_relationships_pair,priority:1"`
	PairHigh            uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_business_relationships_pair,priority:2"`
	Status              business.RelationshipStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (RelationshipModel) TableName() string {
	return "business_relationships"
}

// ToDomain converts the persistence model to a domain Relationship.
func (m *RelationshipModel) ToDomain() *business.Relationship {
	return &business.Relationship{
		BaseEntity:          m.BaseModel.ToDomain(),
		RequesterBusinessID: m.RequesterBusinessID,
		TargetBusinessID:    m.TargetBusinessID,
		Status:              m.Status,
	}
}

// RelationshipModelFromDomain creates a new persistence model from a domain Relationship.
func RelationshipModelFromDomain(r *business.Relationship) *RelationshipModel {
	low, high := OrderedPair(r.RequesterBusinessID, r.TargetBusinessID)
	m := &RelationshipModel{
		RequesterBusinessID: r.RequesterBusinessID,
		TargetBusinessID:    r.TargetBusinessID,
		PairLow:             low,
		PairHigh:            high,
		Status:              r.Status,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// OrderedPair returns a and b with the smaller id first
func OrderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}

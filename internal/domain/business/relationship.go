package business

import (
	"fmt"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RelationshipStatus is the state of a pairwise business relationship
type RelationshipStatus string

const (
	RelationshipPending  RelationshipStatus = "pending"
	RelationshipActive   RelationshipStatus = "active"
	RelationshipRejected RelationshipStatus = "rejected"
)

// IsValid returns true if the status is known
func (s RelationshipStatus) IsValid() bool {
	switch s {
	case RelationshipPending, RelationshipActive, RelationshipRejected:
		return true
	}
	return false
}

// Relationship gates transfers between two businesses. It is created by the
// requester, decided by the target, and checked in both directions.
// Active and rejected are terminal.
type Relationship struct {
	shared.BaseEntity
	RequesterBusinessID uuid.UUID
	TargetBusinessID    uuid.UUID
	Status              RelationshipStatus
}

// NewRelationship creates a pending request from requester to target
func NewRelationship(requester, target uuid.UUID) (*Relationship, error) {
	if requester == uuid.Nil || target == uuid.Nil {
		return nil, shared.NewValidationError("Both businesses are required")
	}
	if requester == target {
		return nil, shared.NewValidationError("A business cannot create a relationship with itself")
	}
	return &Relationship{
		BaseEntity:          shared.NewBaseEntity(),
		RequesterBusinessID: requester,
		TargetBusinessID:    target,
		Status:              RelationshipPending,
	}, nil
}

// Accept activates a pending relationship on behalf of the target
func (r *Relationship) Accept(acting uuid.UUID) error {
	return r.decide(acting, RelationshipActive)
}

// Reject refuses a pending relationship on behalf of the target
func (r *Relationship) Reject(acting uuid.UUID) error {
	return r.decide(acting, RelationshipRejected)
}

func (r *Relationship) decide(acting uuid.UUID, next RelationshipStatus) error {
	if acting != r.TargetBusinessID {
		return shared.NewForbiddenError("Only the target business can decide on this relationship")
	}
	if r.Status != RelationshipPending {
		return shared.NewInvalidStateError(fmt.Sprintf("Relationship is %s and can no longer change", r.Status)).
			WithDetail("status", string(r.Status))
	}
	r.Status = next
	r.Touch()
	return nil
}

// IsActive reports whether the relationship permits transfers
func (r *Relationship) IsActive() bool {
	return r.Status == RelationshipActive
}

// Involves reports whether the business is one side of the relationship
func (r *Relationship) Involves(businessID uuid.UUID) bool {
	return r.RequesterBusinessID == businessID || r.TargetBusinessID == businessID
}

// Counterpart returns the other side of the relationship
func (r *Relationship) Counterpart(businessID uuid.UUID) uuid.UUID {
	if r.RequesterBusinessID == businessID {
		return r.TargetBusinessID
	}
	return r.RequesterBusinessID
}

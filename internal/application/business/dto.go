package business

import (
	"time"

	"github.com/cafeops/backend/internal/domain/business"
	"github.com/google/uuid"
)

// CreateRelationshipRequest asks another business to allow transfers
type CreateRelationshipRequest struct {
	TargetBusinessID uuid.UUID `json:"target_business_id" binding:"required"`
}

// RelationshipResponse represents a relationship in API responses.
// Counterpart fields describe the other side from the caller's point of view.
type RelationshipResponse struct {
	ID                  uuid.UUID `json:"id"`
	RequesterBusinessID uuid.UUID `json:"requester_business_id"`
	TargetBusinessID    uuid.UUID `json:"target_business_id"`
	Status              string    `json:"status"`
	CounterpartID       uuid.UUID `json:"counterpart_business_id"`
	CounterpartName     string    `json:"counterpart_business_name,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// BusinessResponse represents a business in API responses
type BusinessResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}

// ToRelationshipResponse converts a relationship as seen by viewer
func ToRelationshipResponse(r *business.Relationship, viewer uuid.UUID, counterpartName string) RelationshipResponse {
	return RelationshipResponse{
		ID:                  r.ID,
		RequesterBusinessID: r.RequesterBusinessID,
		TargetBusinessID:    r.TargetBusinessID,
		Status:              string(r.Status),
		CounterpartID:       r.Counterpart(viewer),
		CounterpartName:     counterpartName,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// ToBusinessResponse converts a business
func ToBusinessResponse(b *business.Business) BusinessResponse {
	return BusinessResponse{ID: b.ID, Name: b.Name, IsActive: b.IsActive}
}

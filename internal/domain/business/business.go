package business

import (
	"strings"

	"github.com/cafeops/backend/internal/domain/shared"
)

// Business is a tenant: an isolated customer account owning all core data
type Business struct {
	shared.BaseEntity
	Name     string
	IsActive bool
}

// NewBusiness creates an active business
func NewBusiness(name string) (*Business, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Business name cannot be empty")
	}
	return &Business{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		IsActive:   true,
	}, nil
}

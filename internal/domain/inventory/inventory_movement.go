package inventory

import (
	"fmt"
	"strings"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the typed reason of a stock change
type MovementType string

const (
	MovementManualIn          MovementType = "manual_in"
	MovementManualOut         MovementType = "manual_out"
	MovementSale              MovementType = "sale"
	MovementTransferIn        MovementType = "transfer_in"
	MovementTransferOut       MovementType = "transfer_out"
	MovementRecipeConsumption MovementType = "recipe_consumption"
	MovementRevert            MovementType = "revert"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementManualIn,
		MovementManualOut,
		MovementSale,
		MovementTransferIn,
		MovementTransferOut,
		MovementRecipeConsumption,
		MovementRevert:
		return true
	}
	return false
}

// IsManual returns true for operator-entered adjustments
func (t MovementType) IsManual() bool {
	return t == MovementManualIn || t == MovementManualOut
}

// Sign returns the required sign of the quantity for the type:
// 1 for increases, -1 for decreases, 0 when either sign is allowed.
func (t MovementType) Sign() int {
	switch t {
	case MovementManualIn, MovementTransferIn:
		return 1
	case MovementManualOut, MovementSale, MovementTransferOut, MovementRecipeConsumption:
		return -1
	}
	return 0
}

// ParseMovementType converts a string into a MovementType
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.NewValidationError("Invalid movement type: " + s)
	}
	return t, nil
}

// MovementSpec describes a stock change to be posted
type MovementSpec struct {
	Type        MovementType
	Quantity    decimal.Decimal // signed stock delta
	Reason      string
	ReferenceID *uuid.UUID
	CreatedBy   *uuid.UUID
}

// InventoryMovement is an immutable ledger entry. Only the reversal fields
// change after creation.
type InventoryMovement struct {
	shared.TenantEntity
	InventoryItemID      uuid.UUID
	CreatedBy            *uuid.UUID
	Type                 MovementType
	Quantity             decimal.Decimal
	Reason               string
	ReferenceID          *uuid.UUID
	Reverted             bool
	RevertedByMovementID *uuid.UUID
}

// NewInventoryMovement validates spec against the item and builds the entry
func NewInventoryMovement(item *InventoryItem, spec MovementSpec) (*InventoryMovement, error) {
	if !spec.Type.IsValid() {
		return nil, shared.NewValidationError("Invalid movement type: " + spec.Type.String())
	}
	qty := shared.RoundQuantity(spec.Quantity)
	if qty.IsZero() {
		return nil, shared.NewValidationError("Movement quantity cannot be zero")
	}
	switch spec.Type.Sign() {
	case 1:
		if qty.IsNegative() {
			return nil, shared.NewValidationError(fmt.Sprintf("Movement type %s requires a positive quantity", spec.Type))
		}
	case -1:
		if qty.IsPositive() {
			return nil, shared.NewValidationError(fmt.Sprintf("Movement type %s requires a negative quantity", spec.Type))
		}
	}
	reason := strings.TrimSpace(spec.Reason)
	if spec.Type.IsManual() && reason == "" {
		return nil, shared.NewValidationError("A reason is required for manual adjustments")
	}
	if spec.Type == MovementRevert && spec.ReferenceID == nil {
		return nil, shared.NewValidationError("A revert movement must reference the reverted movement")
	}

	return &InventoryMovement{
		TenantEntity:    shared.NewTenantEntity(item.TenantID),
		InventoryItemID: item.ID,
		CreatedBy:       spec.CreatedBy,
		Type:            spec.Type,
		Quantity:        qty,
		Reason:          reason,
		ReferenceID:     spec.ReferenceID,
	}, nil
}

// EnsureRevertible returns an error unless the movement may still be reverted
func (m *InventoryMovement) EnsureRevertible() error {
	if m.Reverted {
		return shared.ErrAlreadyReverted.WithDetail("movement_id", m.ID.String())
	}
	if m.Type == MovementRevert {
		return shared.NewInvalidStateError("A reversal movement cannot itself be reverted")
	}
	return nil
}

// ReversalSpec returns the compensating movement for m
func (m *InventoryMovement) ReversalSpec(reason string, createdBy *uuid.UUID) MovementSpec {
	ref := m.ID
	return MovementSpec{
		Type:        MovementRevert,
		Quantity:    m.Quantity.Neg(),
		Reason:      fmt.Sprintf("Reversal of movement %s. Reason: %s", m.ID, strings.TrimSpace(reason)),
		ReferenceID: &ref,
		CreatedBy:   createdBy,
	}
}

// MarkReverted links m to the movement that compensated it
func (m *InventoryMovement) MarkReverted(by uuid.UUID) error {
	if err := m.EnsureRevertible(); err != nil {
		return err
	}
	m.Reverted = true
	m.RevertedByMovementID = &by
	m.Touch()
	return nil
}

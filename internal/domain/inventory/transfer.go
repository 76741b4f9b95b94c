package inventory

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus is the state of a cross-business transfer
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
	TransferRejected  TransferStatus = "rejected"
)

// IsValid returns true if the status is known
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferPending, TransferCompleted, TransferCancelled, TransferRejected:
		return true
	}
	return false
}

// IsTerminal returns true once the transfer can no longer change
func (s TransferStatus) IsTerminal() bool {
	return s == TransferCompleted || s == TransferCancelled || s == TransferRejected
}

// TransferDirection selects transfers relative to one business
type TransferDirection string

const (
	DirectionAll      TransferDirection = ""
	DirectionOutgoing TransferDirection = "outgoing"
	DirectionIncoming TransferDirection = "incoming"
)

// TransferItem is one line of a transfer
type TransferItem struct {
	ID              uuid.UUID
	TransferID      uuid.UUID
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
	Notes           string
}

// TransferLine is the requested content of a transfer item
type TransferLine struct {
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
	Notes           string
}

// InventoryTransfer moves stock from one business to another once accepted
type InventoryTransfer struct {
	shared.BaseEntity
	FromBusinessID uuid.UUID
	ToBusinessID   uuid.UUID
	CreatedBy      *uuid.UUID
	Status         TransferStatus
	Notes          string
	CompletedAt    *time.Time
	Items          []TransferItem
}

// NewInventoryTransfer builds a pending transfer after checking its shape.
// Stock and relationship checks belong to the caller.
func NewInventoryTransfer(from, to uuid.UUID, createdBy *uuid.UUID, notes string, lines []TransferLine) (*InventoryTransfer, error) {
	if from == uuid.Nil || to == uuid.Nil {
		return nil, shared.NewValidationError("Both businesses are required")
	}
	if from == to {
		return nil, shared.NewValidationError("Cannot transfer inventory to the same business")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("A transfer needs at least one item")
	}

	t := &InventoryTransfer{
		BaseEntity:     shared.NewBaseEntity(),
		FromBusinessID: from,
		ToBusinessID:   to,
		CreatedBy:      createdBy,
		Status:         TransferPending,
		Notes:          strings.TrimSpace(notes),
		Items:          make([]TransferItem, 0, len(lines)),
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.InventoryItemID]; dup {
			return nil, shared.NewValidationError(fmt.Sprintf("Item %s appears more than once in the transfer", line.InventoryItemID)).
				WithDetail("item_id", line.InventoryItemID.String())
		}
		seen[line.InventoryItemID] = struct{}{}

		qty := shared.RoundQuantity(line.Quantity)
		if !qty.IsPositive() {
			return nil, shared.NewValidationError("Transfer quantities must be greater than zero").
				WithDetail("item_id", line.InventoryItemID.String())
		}
		t.Items = append(t.Items, TransferItem{
			ID:              uuid.New(),
			TransferID:      t.ID,
			InventoryItemID: line.InventoryItemID,
			Quantity:        qty,
			Notes:           strings.TrimSpace(line.Notes),
		})
	}
	return t, nil
}

// IsParty reports whether the business is the origin or the destination
func (t *InventoryTransfer) IsParty(businessID uuid.UUID) bool {
	return t.FromBusinessID == businessID || t.ToBusinessID == businessID
}

// ItemIDs returns the origin item ids in ascending order
func (t *InventoryTransfer) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(t.Items))
	for i, item := range t.Items {
		ids[i] = item.InventoryItemID
	}
	SortIDs(ids)
	return ids
}

// Complete marks an accepted transfer
func (t *InventoryTransfer) Complete(acting uuid.UUID) error {
	if acting != t.ToBusinessID {
		return shared.NewForbiddenError("Only the destination business can accept this transfer")
	}
	if err := t.transition(TransferCompleted); err != nil {
		return err
	}
	now := time.Now()
	t.CompletedAt = &now
	return nil
}

// Reject is the destination's refusal of a pending transfer
func (t *InventoryTransfer) Reject(acting uuid.UUID) error {
	if acting != t.ToBusinessID {
		return shared.NewForbiddenError("Only the destination business can reject this transfer")
	}
	return t.transition(TransferRejected)
}

// Cancel is the origin's withdrawal of a pending transfer
func (t *InventoryTransfer) Cancel(acting uuid.UUID) error {
	if acting != t.FromBusinessID {
		return shared.NewForbiddenError("Only the origin business can cancel this transfer")
	}
	return t.transition(TransferCancelled)
}

// EnsurePending fails unless the transfer is still pending
func (t *InventoryTransfer) EnsurePending() error {
	if t.Status != TransferPending {
		return shared.NewInvalidStateError(fmt.Sprintf("Transfer is %s, only pending transfers can change", t.Status)).
			WithDetail("status", string(t.Status))
	}
	return nil
}

func (t *InventoryTransfer) transition(next TransferStatus) error {
	if err := t.EnsurePending(); err != nil {
		return err
	}
	t.Status = next
	t.Touch()
	return nil
}

// SortIDs orders ids ascending by their byte representation, which matches
// the ordering of the uuid column in the database.
func SortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(a, b int) bool {
		return bytes.Compare(ids[a][:], ids[b][:]) < 0
	})
}

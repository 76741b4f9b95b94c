package inventory

import (
	"bytes"
	"testing"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingTransfer(t *testing.T) (*InventoryTransfer, uuid.UUID, uuid.UUID) {
	t.Helper()
	from, to := uuid.New(), uuid.New()
	tr, err := NewInventoryTransfer(from, to, nil, "weekly restock", []TransferLine{
		{InventoryItemID: uuid.New(), Quantity: dec("3")},
		{InventoryItemID: uuid.New(), Quantity: dec("0.5"), Notes: " fragile "},
	})
	require.NoError(t, err)
	return tr, from, to
}

func TestNewInventoryTransfer(t *testing.T) {
	t.Run("builds a pending transfer", func(t *testing.T) {
		tr, from, to := newPendingTransfer(t)

		assert.Equal(t, TransferPending, tr.Status)
		assert.Equal(t, from, tr.FromBusinessID)
		assert.Equal(t, to, tr.ToBusinessID)
		require.Len(t, tr.Items, 2)
		for _, item := range tr.Items {
			assert.Equal(t, tr.ID, item.TransferID)
		}
		assert.Equal(t, "fragile", tr.Items[1].Notes)
		assert.Nil(t, tr.CompletedAt)
	})

	t.Run("same business", func(t *testing.T) {
		id := uuid.New()
		_, err := NewInventoryTransfer(id, id, nil, "", []TransferLine{{InventoryItemID: uuid.New(), Quantity: dec("1")}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "same business")
	})

	t.Run("no items", func(t *testing.T) {
		_, err := NewInventoryTransfer(uuid.New(), uuid.New(), nil, "", nil)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("repeated item", func(t *testing.T) {
		itemID := uuid.New()
		_, err := NewInventoryTransfer(uuid.New(), uuid.New(), nil, "", []TransferLine{
			{InventoryItemID: itemID, Quantity: dec("1")},
			{InventoryItemID: itemID, Quantity: dec("2")},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than once")
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		for _, qty := range []string{"0", "-1", "0.0004"} {
			_, err := NewInventoryTransfer(uuid.New(), uuid.New(), nil, "", []TransferLine{
				{InventoryItemID: uuid.New(), Quantity: dec(qty)},
			})
			assert.Error(t, err, qty)
		}
	})
}

func TestInventoryTransfer_Transitions(t *testing.T) {
	t.Run("destination completes", func(t *testing.T) {
		tr, from, to := newPendingTransfer(t)

		err := tr.Complete(from)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Equal(t, TransferPending, tr.Status)

		require.NoError(t, tr.Complete(to))
		assert.Equal(t, TransferCompleted, tr.Status)
		assert.NotNil(t, tr.CompletedAt)
		assert.True(t, tr.Status.IsTerminal())
	})

	t.Run("destination rejects", func(t *testing.T) {
		tr, from, to := newPendingTransfer(t)
		assert.ErrorIs(t, tr.Reject(from), shared.ErrForbidden)
		require.NoError(t, tr.Reject(to))
		assert.Equal(t, TransferRejected, tr.Status)
		assert.Nil(t, tr.CompletedAt)
	})

	t.Run("origin cancels", func(t *testing.T) {
		tr, from, to := newPendingTransfer(t)
		assert.ErrorIs(t, tr.Cancel(to), shared.ErrForbidden)
		require.NoError(t, tr.Cancel(from))
		assert.Equal(t, TransferCancelled, tr.Status)
	})

	t.Run("terminal transfers cannot change", func(t *testing.T) {
		tr, from, to := newPendingTransfer(t)
		require.NoError(t, tr.Reject(to))

		assert.ErrorIs(t, tr.Complete(to), shared.ErrInvalidState)
		assert.ErrorIs(t, tr.Cancel(from), shared.ErrInvalidState)
		assert.ErrorIs(t, tr.Reject(to), shared.ErrInvalidState)
		assert.Equal(t, TransferRejected, tr.Status)
	})
}

func TestInventoryTransfer_IsParty(t *testing.T) {
	tr, from, to := newPendingTransfer(t)
	assert.True(t, tr.IsParty(from))
	assert.True(t, tr.IsParty(to))
	assert.False(t, tr.IsParty(uuid.New()))
}

func TestInventoryTransfer_ItemIDs(t *testing.T) {
	lines := make([]TransferLine, 0, 8)
	for range 8 {
		lines = append(lines, TransferLine{InventoryItemID: uuid.New(), Quantity: dec("1")})
	}
	tr, err := NewInventoryTransfer(uuid.New(), uuid.New(), nil, "", lines)
	require.NoError(t, err)

	ids := tr.ItemIDs()
	require.Len(t, ids, 8)
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, bytes.Compare(ids[i-1][:], ids[i][:]))
	}
	// items keep their request order
	assert.Equal(t, lines[0].InventoryItemID, tr.Items[0].InventoryItemID)
}

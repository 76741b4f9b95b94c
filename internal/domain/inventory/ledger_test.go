package inventory

import (
	"testing"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMovementType(t *testing.T) {
	mt, err := ParseMovementType(" Manual_In ")
	require.NoError(t, err)
	assert.Equal(t, MovementManualIn, mt)

	_, err = ParseMovementType("spoilage")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestMovementType_Sign(t *testing.T) {
	tests := []struct {
		movementType MovementType
		sign         int
	}{
		{MovementManualIn, 1},
		{MovementTransferIn, 1},
		{MovementManualOut, -1},
		{MovementSale, -1},
		{MovementTransferOut, -1},
		{MovementRecipeConsumption, -1},
		{MovementRevert, 0},
	}
	for _, tt := range tests {
		t.Run(tt.movementType.String(), func(t *testing.T) {
			assert.Equal(t, tt.sign, tt.movementType.Sign())
		})
	}
}

func TestPost(t *testing.T) {
	userID := uuid.New()

	t.Run("manual in increases stock", func(t *testing.T) {
		item := createTestItem(t, "1.5")
		version := item.Version

		m, err := Post(item, MovementSpec{Type: MovementManualIn, Quantity: dec("2.25"), Reason: " delivery ", CreatedBy: &userID})

		require.NoError(t, err)
		assert.Equal(t, "3.750", item.QuantityInStock.StringFixed(3))
		assert.Equal(t, version+1, item.Version)
		assert.Equal(t, item.ID, m.InventoryItemID)
		assert.Equal(t, item.TenantID, m.TenantID)
		assert.Equal(t, "delivery", m.Reason)
		assert.Equal(t, &userID, m.CreatedBy)
		assert.False(t, m.Reverted)
	})

	t.Run("sale decreases stock to exactly zero", func(t *testing.T) {
		item := createTestItem(t, "2")
		_, err := Post(item, MovementSpec{Type: MovementSale, Quantity: dec("-2")})
		require.NoError(t, err)
		assert.True(t, item.QuantityInStock.IsZero())
	})

	t.Run("insufficient stock leaves the item untouched", func(t *testing.T) {
		item := createTestItem(t, "2")
		version := item.Version

		m, err := Post(item, MovementSpec{Type: MovementManualOut, Quantity: dec("-3"), Reason: "spoiled"})

		require.Error(t, err)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "2.000", de.Details["current_stock"])
		assert.Equal(t, "-3.000", de.Details["requested"])
		assert.Equal(t, "l", de.Details["unit_of_measure"])
		assert.Equal(t, "2", item.QuantityInStock.String())
		assert.Equal(t, version, item.Version)
	})

	t.Run("inactive item is rejected", func(t *testing.T) {
		item := createTestItem(t, "5")
		item.IsActive = false
		_, err := Post(item, MovementSpec{Type: MovementSale, Quantity: dec("-1")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inactive")
	})

	t.Run("manual types need a reason", func(t *testing.T) {
		item := createTestItem(t, "5")
		_, err := Post(item, MovementSpec{Type: MovementManualOut, Quantity: dec("-1"), Reason: "  "})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reason")
		assert.Equal(t, "5", item.QuantityInStock.String())
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		item := createTestItem(t, "5")
		_, err := Post(item, MovementSpec{Type: MovementManualIn, Quantity: dec("0.0001"), Reason: "rounding"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "zero")
	})

	t.Run("sign must match the type", func(t *testing.T) {
		item := createTestItem(t, "5")
		_, err := Post(item, MovementSpec{Type: MovementSale, Quantity: dec("1")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")

		_, err = Post(item, MovementSpec{Type: MovementTransferIn, Quantity: dec("-1")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "positive")
	})

	t.Run("revert needs a reference", func(t *testing.T) {
		item := createTestItem(t, "5")
		_, err := Post(item, MovementSpec{Type: MovementRevert, Quantity: dec("1")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reference")
	})
}

func TestInventoryMovement_Reversal(t *testing.T) {
	item := createTestItem(t, "10")
	original, err := Post(item, MovementSpec{Type: MovementSale, Quantity: dec("-4")})
	require.NoError(t, err)

	userID := uuid.New()
	spec := original.ReversalSpec(" wrong order ", &userID)

	assert.Equal(t, MovementRevert, spec.Type)
	assert.Equal(t, "4.000", spec.Quantity.StringFixed(3))
	require.NotNil(t, spec.ReferenceID)
	assert.Equal(t, original.ID, *spec.ReferenceID)
	assert.Equal(t, "Reversal of movement "+original.ID.String()+". Reason: wrong order", spec.Reason)

	reversal, err := Post(item, spec)
	require.NoError(t, err)
	assert.Equal(t, "10.000", item.QuantityInStock.StringFixed(3))

	require.NoError(t, original.MarkReverted(reversal.ID))
	assert.True(t, original.Reverted)
	assert.Equal(t, &reversal.ID, original.RevertedByMovementID)

	t.Run("inactive item can still be reverted", func(t *testing.T) {
		item := createTestItem(t, "1")
		sale, err := Post(item, MovementSpec{Type: MovementSale, Quantity: dec("-1")})
		require.NoError(t, err)
		item.IsActive = false

		_, err = Post(item, sale.ReversalSpec("wrong order", nil))
		require.NoError(t, err)
		assert.Equal(t, "1.000", item.QuantityInStock.StringFixed(3))

		delivery := createTestItem(t, "2")
		in, err := Post(delivery, MovementSpec{Type: MovementManualIn, Quantity: dec("2"), Reason: "delivery"})
		require.NoError(t, err)
		_, err = Post(delivery, MovementSpec{Type: MovementManualOut, Quantity: dec("-3"), Reason: "spoiled"})
		require.NoError(t, err)
		delivery.IsActive = false

		_, err = Post(delivery, in.ReversalSpec("duplicate", nil))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("already reverted", func(t *testing.T) {
		err := original.EnsureRevertible()
		assert.ErrorIs(t, err, shared.ErrAlreadyReverted)
		assert.ErrorIs(t, original.MarkReverted(uuid.New()), shared.ErrAlreadyReverted)
	})

	t.Run("reversals are final", func(t *testing.T) {
		err := reversal.EnsureRevertible()
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.False(t, reversal.Reverted)
	})
}

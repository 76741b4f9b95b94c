package catalog

import (
	"testing"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroup(t *testing.T) *ModifierGroup {
	t.Helper()
	g, err := NewModifierGroup(uuid.New(), ModifierGroupDetails{Name: " Milk ", AllowMultiple: false, IsRequired: true})
	require.NoError(t, err)
	return g
}

func TestNewModifierGroup(t *testing.T) {
	g := newGroup(t)
	assert.Equal(t, "Milk", g.Name)
	assert.True(t, g.IsRequired)
	assert.True(t, g.IsActive)

	_, err := NewModifierGroup(uuid.New(), ModifierGroupDetails{Name: ""})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	g.SetActive(false)
	assert.False(t, g.IsActive)
}

func TestNewModifier(t *testing.T) {
	g := newGroup(t)
	milkID, oatID := uuid.New(), uuid.New()

	t.Run("creates a modifier in the group's tenant", func(t *testing.T) {
		m, err := NewModifier(g, ModifierDetails{Name: "Oat milk", PriceExtra: dec("0.455")}, []ModifierItemLine{
			{InventoryItemID: milkID, Quantity: dec("-0.2")},
			{InventoryItemID: oatID, Quantity: dec("0.2")},
		})

		require.NoError(t, err)
		assert.Equal(t, g.TenantID, m.TenantID)
		assert.Equal(t, g.ID, m.GroupID)
		assert.Equal(t, "Milk", m.GroupName)
		assert.Equal(t, "0.46", m.PriceExtra.StringFixed(2))
		require.Len(t, m.Items, 2)
		assert.Equal(t, m.ID, m.Items[0].ModifierID)
		assert.Equal(t, "-0.200", m.Items[0].Quantity.StringFixed(3))
		assert.Len(t, m.ItemIDs(), 2)
	})

	t.Run("needs an item", func(t *testing.T) {
		_, err := NewModifier(g, ModifierDetails{Name: "Nothing"}, nil)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewModifier(g, ModifierDetails{Name: "Zero"}, []ModifierItemLine{{InventoryItemID: milkID, Quantity: decimal.Zero}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be zero")
	})

	t.Run("duplicate items", func(t *testing.T) {
		_, err := NewModifier(g, ModifierDetails{Name: "Double"}, []ModifierItemLine{
			{InventoryItemID: milkID, Quantity: dec("1")},
			{InventoryItemID: milkID, Quantity: dec("2")},
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("negative extra price", func(t *testing.T) {
		_, err := NewModifier(g, ModifierDetails{Name: "Refund", PriceExtra: dec("-1")}, []ModifierItemLine{
			{InventoryItemID: milkID, Quantity: dec("1")},
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestAssign(t *testing.T) {
	ings := espressoIngredients()
	p, err := NewProduct(uuid.New(), ProductDetails{Name: "Flat white"}, dec("3"), nil, ings)
	require.NoError(t, err)
	g := newGroup(t)

	t.Run("compatible when every item is an ingredient", func(t *testing.T) {
		m, err := NewModifier(g, ModifierDetails{Name: "Extra shot"}, []ModifierItemLine{
			{InventoryItemID: ings[0].InventoryItemID, Quantity: dec("0.009")},
		})
		require.NoError(t, err)

		pm, err := Assign(p, m)
		require.NoError(t, err)
		assert.Equal(t, p.ID, pm.ProductID)
		assert.Equal(t, m.ID, pm.ModifierID)
		assert.Empty(t, MissingIngredients(p, m))
	})

	t.Run("incompatible lists the missing items", func(t *testing.T) {
		syrupID, sugarID := uuid.New(), uuid.New()
		m, err := NewModifier(g, ModifierDetails{Name: "Sweet"}, []ModifierItemLine{
			{InventoryItemID: ings[1].InventoryItemID, Quantity: dec("-0.05")},
			{InventoryItemID: syrupID, Quantity: dec("0.01")},
			{InventoryItemID: sugarID, Quantity: dec("0.005")},
		})
		require.NoError(t, err)

		pm, err := Assign(p, m)
		require.Error(t, err)
		assert.Nil(t, pm)
		assert.ErrorIs(t, err, shared.ErrIncompatibleModifier)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		missing, ok := de.Details["missing_item_ids"].([]string)
		require.True(t, ok)
		assert.ElementsMatch(t, []string{syrupID.String(), sugarID.String()}, missing)
		assert.IsIncreasing(t, missing)
	})

	t.Run("compatibility follows ingredient replacement", func(t *testing.T) {
		newItem := uuid.New()
		m, err := NewModifier(g, ModifierDetails{Name: "Oat"}, []ModifierItemLine{
			{InventoryItemID: newItem, Quantity: dec("0.2")},
		})
		require.NoError(t, err)
		_, err = Assign(p, m)
		require.ErrorIs(t, err, shared.ErrIncompatibleModifier)

		replaced := append(espressoIngredients(), IngredientCost{InventoryItemID: newItem, Quantity: dec("0.1"), UnitPrice: dec("1")})
		require.NoError(t, p.ReplaceIngredients(replaced))

		_, err = Assign(p, m)
		assert.NoError(t, err)
	})
}

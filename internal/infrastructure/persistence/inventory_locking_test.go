package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormInventoryItemRepository_LockItems(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormInventoryItemRepository(db.DB)

	tenantA, tenantB := uuid.New(), uuid.New()
	low := uuid.MustParse("10000000-0000-4000-8000-000000000000")
	high := uuid.MustParse("f0000000-0000-4000-8000-000000000000")

	// ids are bound in ascending order whatever the request order
	mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE id IN \(\$1,\$2\) ORDER BY id ASC FOR UPDATE`).
		WithArgs(low.String(), high.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "unit_of_measure", "quantity_in_stock", "is_active"}).
			AddRow(low.String(), tenantA.String(), "Whole milk", "l", "3.000", true).
			AddRow(high.String(), uuid.New().String(), "Coffee beans", "kg", "1.000", true))

	items, err := repo.LockItems(context.Background(), []inventory.ItemKey{
		{TenantID: tenantB, ItemID: high},
		{TenantID: tenantA, ItemID: low},
		{TenantID: tenantA, ItemID: low},
	})

	require.NoError(t, err)
	require.Len(t, items, 1, "a row owned by another tenant is dropped")
	assert.Equal(t, low, items[0].ID)
	assert.Equal(t, "3.000", items[0].QuantityInStock.StringFixed(3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInventoryItemRepository_LockItemsEmpty(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	items, err := NewGormInventoryItemRepository(db.DB).LockItems(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInventoryItemRepository_FindByIDForUpdate(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormInventoryItemRepository(db.DB)

	t.Run("locks the row", func(t *testing.T) {
		tenantID, itemID := uuid.New(), uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE tenant_id = \$1 AND id = \$2 .*FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "unit_of_measure", "quantity_in_stock"}).
				AddRow(itemID.String(), tenantID.String(), "Whole milk", "l", "2.500"))

		item, err := repo.FindByIDForUpdate(context.Background(), tenantID, itemID)
		require.NoError(t, err)
		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, "2.500", item.QuantityInStock.StringFixed(3))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectQuery(`FROM "inventory_items" .*FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByIDForUpdate(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInventoryMovementRepository_MarkReverted(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormInventoryMovementRepository(db.DB)

	reversalID := uuid.New()
	movement := &inventory.InventoryMovement{}
	movement.ID = uuid.New()
	movement.TenantID = uuid.New()
	movement.RevertedByMovementID = &reversalID

	t.Run("updates only unreverted rows", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "inventory_movements" SET .* WHERE tenant_id = \$\d+ AND id = \$\d+ AND reverted = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkReverted(context.Background(), movement))
	})

	t.Run("a concurrent revert won", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "inventory_movements" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkReverted(context.Background(), movement)
		assert.ErrorIs(t, err, shared.ErrAlreadyReverted)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInventoryItemRepository_LockNames(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormInventoryItemRepository(db.DB)

	tenantID := uuid.New()
	beans := inventory.NameKey{TenantID: tenantID, Name: "Coffee beans", UnitOfMeasure: "kg"}
	milk := inventory.NameKey{TenantID: tenantID, Name: "Whole milk", UnitOfMeasure: "l"}

	// sorted and deduplicated
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtextextended\(\$1, 0\)\)`).
		WithArgs(beans.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtextextended\(\$1, 0\)\)`).
		WithArgs(milk.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.LockNames(context.Background(), []inventory.NameKey{milk, beans, milk}))
	require.NoError(t, repo.LockNames(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

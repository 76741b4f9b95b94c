package persistence

import (
	"context"
	"testing"
	"time"

	appinv "github.com/cafeops/backend/internal/application/inventory"
	"github.com/cafeops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertSchemaConstraints checks the rules the database enforces on its own,
// whatever the service layer does.
func assertSchemaConstraints(t *testing.T, env *flowEnv) {
	ctx := context.Background()
	origin := owner(env.business(t, "Roastery"))
	dest := owner(env.business(t, "Kiosk"))
	env.relate(t, origin, dest)
	beans := env.item(t, origin, "Coffee beans", "kg", "10")

	t.Run("a transfer lists an item once", func(t *testing.T) {
		tr, err := env.transfers.Create(ctx, origin, appinv.CreateTransferRequest{
			ToBusinessID: dest.TenantID,
			Items:        []appinv.TransferItemRequest{{InventoryItemID: beans, Quantity: qty("1")}},
		})
		require.NoError(t, err)

		dup := models.InventoryTransferItemModel{
			ID:              uuid.New(),
			TransferID:      tr.ID,
			InventoryItemID: beans,
			Quantity:        qty("2"),
		}
		assert.Error(t, env.db.WithContext(ctx).Create(&dup).Error)
	})

	t.Run("sale price covers total cost", func(t *testing.T) {
		now := time.Now()
		product := models.ProductModel{Name: "Loss leader", SalePrice: qty("1.00"), TotalCost: qty("2.00")}
		product.ID = uuid.New()
		product.TenantID = origin.TenantID
		product.Version = 1
		product.CreatedAt, product.UpdatedAt = now, now
		assert.Error(t, env.db.WithContext(ctx).Create(&product).Error)

		product.ID = uuid.New()
		product.SalePrice = qty("2.00")
		assert.NoError(t, env.db.WithContext(ctx).Create(&product).Error)
	})
}

func TestSchemaConstraints(t *testing.T) {
	assertSchemaConstraints(t, newFlowEnv(t))
}

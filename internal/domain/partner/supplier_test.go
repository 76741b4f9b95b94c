package partner

import (
	"strings"
	"testing"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	tenantID := uuid.New()

	t.Run("normalizes fields", func(t *testing.T) {
		s, err := NewSupplier(tenantID, SupplierDetails{
			Name:         " Dairy Co ",
			SupplierType: " dairy ",
			Email:        " Orders@Dairy.example ",
		})
		require.NoError(t, err)
		assert.Equal(t, tenantID, s.TenantID)
		assert.Equal(t, "Dairy Co", s.Name)
		assert.Equal(t, "dairy", s.SupplierType)
		assert.Equal(t, "orders@dairy.example", s.Email)
		assert.True(t, s.IsActive)
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := NewSupplier(tenantID, SupplierDetails{Name: ""})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("name length", func(t *testing.T) {
		_, err := NewSupplier(tenantID, SupplierDetails{Name: strings.Repeat("a", 256)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "255")
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewSupplier(tenantID, SupplierDetails{Name: "Dairy Co", Email: "not-an-email"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email")
	})
}

func TestSupplier_Deactivate(t *testing.T) {
	s, err := NewSupplier(uuid.New(), SupplierDetails{Name: "Dairy Co"})
	require.NoError(t, err)

	require.NoError(t, s.Deactivate())
	assert.False(t, s.IsActive)
	assert.ErrorIs(t, s.Deactivate(), shared.ErrInvalidState)
}

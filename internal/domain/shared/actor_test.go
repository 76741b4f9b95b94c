package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Owner ")
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, r)

	_, err = ParseRole("chef")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRole_Rank(t *testing.T) {
	ordered := []Role{RoleOwner, RoleAdmin, RoleCook, RoleCashier, RoleWaiter}
	for i := 1; i < len(ordered); i++ {
		assert.True(t, ordered[i-1].Outranks(ordered[i]), "%s > %s", ordered[i-1], ordered[i])
		assert.False(t, ordered[i].Outranks(ordered[i-1]))
	}
	assert.Equal(t, 0, Role("chef").Rank())
	assert.False(t, RoleWaiter.Outranks(RoleWaiter))
}

func TestActor_Require(t *testing.T) {
	owner := Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: RoleOwner}
	cook := Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: RoleCook}

	assert.NoError(t, owner.Require("revert movements", RoleOwner))

	err := cook.Require("adjust stock", RoleOwner, RoleAdmin)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Only OWNER, ADMIN can adjust stock", err.Error())

	// roles are matched exactly, rank does not imply permission
	assert.Error(t, owner.Require("prepare recipes", RoleCook))
}

func TestActor_UserRef(t *testing.T) {
	assert.Nil(t, Actor{}.UserRef())

	a := Actor{UserID: uuid.New(), Name: "Ana"}
	ref := a.UserRef()
	require.NotNil(t, ref)
	assert.Equal(t, a.UserID, *ref)
	assert.Equal(t, "Ana", a.DisplayName())
	assert.Equal(t, a.UserID.String(), Actor{UserID: a.UserID}.DisplayName())
}

func TestDomainError(t *testing.T) {
	t.Run("matches sentinels by code", func(t *testing.T) {
		err := NewNotFoundError("Supplier")
		assert.Equal(t, "Supplier not found", err.Error())
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrInvalidState)

		wrapped := fmt.Errorf("load: %w", err)
		assert.ErrorIs(t, wrapped, ErrNotFound)
		assert.True(t, IsDomainError(wrapped, CodeNotFound))
		assert.False(t, IsDomainError(errors.New("plain"), CodeNotFound))
	})

	t.Run("WithDetail copies", func(t *testing.T) {
		detailed := ErrAlreadyReverted.WithDetail("movement_id", "m1")
		assert.Equal(t, "m1", detailed.Details["movement_id"])
		assert.Nil(t, ErrAlreadyReverted.Details)

		more := detailed.WithDetail("reason", "x")
		assert.Len(t, more.Details, 2)
		assert.Len(t, detailed.Details, 1)
	})
}

func TestFilterAndPaginated(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 0, f.Offset())
	f.Page = 3
	assert.Equal(t, 40, f.Offset())

	p := NewPaginated([]int{1, 2}, 41, 3, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPaginated[int](nil, 5, 1, 0).TotalPages)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, "1.235", RoundQuantity(mustDecimal(t, "1.2345")).String())
	assert.Equal(t, "1.24", RoundMoney(mustDecimal(t, "1.235")).String())
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

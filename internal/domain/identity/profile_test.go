package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	org := uuid.New()

	t.Run("creates active profile with role defaults", func(t *testing.T) {
		p, err := NewProfile("Cashier@Example.com ", "secret-password", RoleCashier, org, nil)
		require.NoError(t, err)

		assert.Equal(t, "cashier@example.com", p.Email)
		assert.Equal(t, ProfileStatusActive, p.Status)
		require.NotNil(t, p.OrganizationID)
		assert.Equal(t, org, *p.OrganizationID)
		assert.True(t, p.Permissions.Has(CapabilitySales))
		assert.False(t, p.Permissions.Has(CapabilityUsers))
	})

	t.Run("rejects super-admin role", func(t *testing.T) {
		_, err := NewProfile("root@example.com", "secret-password", RoleSuperAdmin, org, nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewProfile("not-an-email", "secret-password", RoleManager, org, nil)
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewProfile("manager@example.com", "short", RoleManager, org, nil)
		assert.Error(t, err)
	})
}

func TestProfilePassword(t *testing.T) {
	p, err := NewProfile("user@example.com", "secret-password", RoleManager, uuid.New(), nil)
	require.NoError(t, err)

	assert.True(t, p.VerifyPassword("secret-password"))
	assert.False(t, p.VerifyPassword("wrong-password"))
	assert.NotEqual(t, "secret-password", p.PasswordHash)
}

func TestProfileSetPermission(t *testing.T) {
	p, err := NewProfile("user@example.com", "secret-password", RoleCashier, uuid.New(), nil)
	require.NoError(t, err)

	require.NoError(t, p.SetPermission(CapabilityInventory, true))
	assert.True(t, p.Permissions.Has(CapabilityInventory))

	assert.Error(t, p.SetPermission(Capability("billing"), true))
}

func TestNewSuperAdminProfile(t *testing.T) {
	p, err := NewSuperAdminProfile("root@example.com", "secret-password")
	require.NoError(t, err)

	assert.True(t, p.Role.IsSuperAdmin())
	assert.Nil(t, p.OrganizationID)
	assert.Nil(t, p.BranchID)
	for _, c := range AllCapabilities() {
		assert.True(t, p.Permissions.Has(c))
	}
}

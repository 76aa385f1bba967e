package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scopedProfile(t *testing.T, role Role) *Profile {
	t.Helper()
	org := uuid.New()
	p, err := NewProfile("user@example.com", "secret-password", role, org, nil)
	require.NoError(t, err)
	return p
}

func TestNewTenantContext(t *testing.T) {
	t.Run("scoped profile produces organization-scoped context", func(t *testing.T) {
		org := uuid.New()
		branch := uuid.New()
		p, err := NewProfile("manager@example.com", "secret-password", RoleManager, org, &branch)
		require.NoError(t, err)

		tc, err := NewTenantContext(p)
		require.NoError(t, err)

		assert.False(t, tc.Unrestricted())
		require.NotNil(t, tc.OrganizationID())
		assert.Equal(t, org, *tc.OrganizationID())
		require.NotNil(t, tc.BranchID())
		assert.Equal(t, branch, *tc.BranchID())
		assert.Equal(t, p.UserID, tc.UserID())
	})

	t.Run("super-admin produces unrestricted context", func(t *testing.T) {
		p, err := NewSuperAdminProfile("root@example.com", "secret-password")
		require.NoError(t, err)

		tc, err := NewTenantContext(p)
		require.NoError(t, err)

		assert.True(t, tc.Unrestricted())
		assert.Nil(t, tc.OrganizationID())
		assert.Nil(t, tc.BranchID())
	})

	t.Run("non-super-admin without organization is rejected", func(t *testing.T) {
		p := scopedProfile(t, RoleCashier)
		p.OrganizationID = nil

		tc, err := NewTenantContext(p)
		assert.Nil(t, tc)
		assert.ErrorIs(t, err, ErrOrganizationMissing)
	})

	t.Run("context is detached from the profile", func(t *testing.T) {
		p := scopedProfile(t, RoleManager)
		tc, err := NewTenantContext(p)
		require.NoError(t, err)

		// Mutating the profile afterwards must not leak into the context.
		*p.OrganizationID = uuid.New()
		p.Permissions[CapabilityUsers] = true

		assert.NotEqual(t, *p.OrganizationID, *tc.OrganizationID())
		assert.False(t, tc.HasCapability(CapabilityUsers))
	})
}

func TestTenantContextHasCapability(t *testing.T) {
	t.Run("unrestricted context passes every check", func(t *testing.T) {
		p, err := NewSuperAdminProfile("root@example.com", "secret-password")
		require.NoError(t, err)
		tc, err := NewTenantContext(p)
		require.NoError(t, err)

		for _, c := range AllCapabilities() {
			assert.True(t, tc.HasCapability(c), "capability %s", c)
		}
	})

	t.Run("scoped context honors its grants", func(t *testing.T) {
		p := scopedProfile(t, RoleCashier)
		tc, err := NewTenantContext(p)
		require.NoError(t, err)

		assert.True(t, tc.HasCapability(CapabilitySales))
		assert.False(t, tc.HasCapability(CapabilityUsers))
	})

	t.Run("unknown capability is always denied", func(t *testing.T) {
		p := scopedProfile(t, RoleAdmin)
		tc, err := NewTenantContext(p)
		require.NoError(t, err)

		assert.False(t, tc.HasCapability(Capability("billing")))
	})
}

func TestPermissionSet(t *testing.T) {
	t.Run("missing key is denied", func(t *testing.T) {
		set := PermissionSet{CapabilitySales: true}
		assert.True(t, set.Has(CapabilitySales))
		assert.False(t, set.Has(CapabilityInventory))
	})

	t.Run("unknown key is denied even when set", func(t *testing.T) {
		set := PermissionSet{Capability("made-up"): true}
		assert.False(t, set.Has(Capability("made-up")))
	})

	t.Run("clone is independent", func(t *testing.T) {
		set := PermissionSet{CapabilitySales: true}
		clone := set.Clone()
		clone[CapabilitySales] = false
		assert.True(t, set.Has(CapabilitySales))
	})
}

func TestDefaultPermissionsForRole(t *testing.T) {
	t.Run("admin gets everything", func(t *testing.T) {
		set := DefaultPermissionsForRole(RoleAdmin)
		for _, c := range AllCapabilities() {
			assert.True(t, set.Has(c), "capability %s", c)
		}
	})

	t.Run("manager is denied user and settings administration", func(t *testing.T) {
		set := DefaultPermissionsForRole(RoleManager)
		assert.True(t, set.Has(CapabilityInventory))
		assert.False(t, set.Has(CapabilityUsers))
		assert.False(t, set.Has(CapabilitySettings))
	})

	t.Run("cashier only sells", func(t *testing.T) {
		set := DefaultPermissionsForRole(RoleCashier)
		assert.True(t, set.Has(CapabilitySales))
		assert.False(t, set.Has(CapabilityInventory))
	})
}

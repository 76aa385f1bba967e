package identity

import (
	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// ErrOrganizationMissing is returned when a non-super-admin profile has no
// organization. Such a profile is a data-integrity violation and must not
// produce a partially scoped context.
var ErrOrganizationMissing = shared.NewDomainError("ORGANIZATION_MISSING", "Profile has no organization")

// TenantContext is the request-scoped authorization context derived from a
// profile. It is rebuilt on every request and never mutated after
// construction; a stale or patched context would reopen the cross-tenant
// leakage risk this layer exists to prevent.
type TenantContext struct {
	userID         uuid.UUID
	role           Role
	organizationID *uuid.UUID
	branchID       *uuid.UUID
	unrestricted   bool
	permissions    PermissionSet
}

// NewTenantContext builds a context from a profile, enforcing the scoping
// invariant: a context is either unrestricted (super-admin, no org/branch)
// or fully organization-scoped. There is no in-between.
func NewTenantContext(p *Profile) (*TenantContext, error) {
	if p.Role.IsSuperAdmin() {
		return &TenantContext{
			userID:       p.UserID,
			role:         p.Role,
			unrestricted: true,
			permissions:  FullPermissionSet(),
		}, nil
	}
	if p.OrganizationID == nil {
		return nil, ErrOrganizationMissing
	}

	org := *p.OrganizationID
	var branch *uuid.UUID
	if p.BranchID != nil {
		b := *p.BranchID
		branch = &b
	}
	return &TenantContext{
		userID:         p.UserID,
		role:           p.Role,
		organizationID: &org,
		branchID:       branch,
		permissions:    p.Permissions.Clone(),
	}, nil
}

// UserID returns the principal id the context was built for
func (tc *TenantContext) UserID() uuid.UUID {
	return tc.userID
}

// Role returns the profile role
func (tc *TenantContext) Role() Role {
	return tc.role
}

// Unrestricted reports whether the context belongs to a super-admin. An
// unrestricted context has no organization or branch of its own; callers
// performing cross-tenant operations must supply an explicit target.
func (tc *TenantContext) Unrestricted() bool {
	return tc.unrestricted
}

// OrganizationID returns the scoped organization, or nil when unrestricted
func (tc *TenantContext) OrganizationID() *uuid.UUID {
	if tc.organizationID == nil {
		return nil
	}
	org := *tc.organizationID
	return &org
}

// BranchID returns the scoped branch. nil means organization-wide: either
// an unrestricted context or a user not pinned to a single branch.
func (tc *TenantContext) BranchID() *uuid.UUID {
	if tc.branchID == nil {
		return nil
	}
	b := *tc.branchID
	return &b
}

// HasCapability reports whether the context grants the capability. An
// unrestricted context passes every check.
func (tc *TenantContext) HasCapability(c Capability) bool {
	if tc.unrestricted {
		return true
	}
	return tc.permissions.Has(c)
}

// Permissions returns a copy of the capability grants
func (tc *TenantContext) Permissions() PermissionSet {
	return tc.permissions.Clone()
}

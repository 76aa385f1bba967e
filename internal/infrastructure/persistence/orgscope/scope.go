// Package orgscope provides organization/branch scoping for GORM queries.
//
// Every data access of a scoped (non-super-admin) tenant context must pass
// through one of these scope functions so that no query can return rows of
// another organization. An unrestricted (super-admin) context is left
// untouched: cross-tenant access happens only through an explicit,
// operator-supplied Target, never implicitly.
//
// Usage:
//
//	db.Scopes(orgscope.BranchScope(tc)).Find(&warehouses)
//	// WHERE organization_id = ? AND (branch_id = ? OR branch_id IS NULL)
//
// The scope functions are pure: they consult nothing but the passed-in
// context and are safe to compose. Applying the organization filter on top
// of the branch filter is redundant but does not change results.
package orgscope

import (
	"errors"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// ErrContextRequired is returned when a scope is applied without a tenant context
var ErrContextRequired = errors.New("tenant context is required but missing")

// ErrExplicitTargetRequired is returned when an unrestricted context asks
// for insert defaults. A super-admin has no organization of its own, so
// writing without an explicit target would silently create rows with null
// tenant ownership.
var ErrExplicitTargetRequired = errors.New("explicit organization target required for an unrestricted context")

// OrganizationScope restricts a query to the context's organization. For an
// unrestricted context the query is returned unchanged; callers needing a
// specific organization must apply TargetScope themselves.
func OrganizationScope(tc *identity.TenantContext) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tc == nil {
			_ = db.AddError(ErrContextRequired)
			return db
		}
		if tc.Unrestricted() {
			return db
		}
		return db.Where("organization_id = ?", *tc.OrganizationID())
	}
}

// BranchScope restricts a query to the context's branch, keeping shared
// rows (branch_id IS NULL) visible. Branch membership implies organization
// membership, so the organization predicate is included and callers do not
// need to stack OrganizationScope on top.
//
// A scoped context without a branch (organization-wide user) degrades to
// the plain organization filter.
func BranchScope(tc *identity.TenantContext) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tc == nil {
			_ = db.AddError(ErrContextRequired)
			return db
		}
		if tc.Unrestricted() {
			return db
		}
		db = db.Where("organization_id = ?", *tc.OrganizationID())
		if branch := tc.BranchID(); branch != nil {
			db = db.Where("branch_id = ? OR branch_id IS NULL", *branch)
		}
		return db
	}
}

// Target is an operator-supplied organization/branch pair used by an
// unrestricted context to address one tenant explicitly.
type Target struct {
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
}

// TargetScope restricts a query to an explicitly targeted tenant. It is
// the only sanctioned way for an unrestricted context to narrow a query.
func TargetScope(target Target) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if target.OrganizationID == uuid.Nil {
			_ = db.AddError(ErrExplicitTargetRequired)
			return db
		}
		db = db.Where("organization_id = ?", target.OrganizationID)
		if target.BranchID != nil {
			db = db.Where("branch_id = ? OR branch_id IS NULL", *target.BranchID)
		}
		return db
	}
}

// Defaults holds the ownership columns stamped onto newly created rows
type Defaults struct {
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
}

// InsertDefaults derives the ownership columns for an insert from the
// context. For an unrestricted context it fails fast with
// ErrExplicitTargetRequired instead of returning empty ownership.
func InsertDefaults(tc *identity.TenantContext) (Defaults, error) {
	if tc == nil {
		return Defaults{}, ErrContextRequired
	}
	if tc.Unrestricted() {
		return Defaults{}, ErrExplicitTargetRequired
	}
	return Defaults{
		OrganizationID: *tc.OrganizationID(),
		BranchID:       tc.BranchID(),
	}, nil
}

// DefaultsFromTarget converts an explicit target into insert defaults for
// writes performed by an unrestricted context.
func DefaultsFromTarget(target Target) (Defaults, error) {
	if target.OrganizationID == uuid.Nil {
		return Defaults{}, ErrExplicitTargetRequired
	}
	return Defaults{
		OrganizationID: target.OrganizationID,
		BranchID:       target.BranchID,
	}, nil
}

package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity provides identity and timestamps for domain entities
type Entity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEntity creates an entity with a fresh id
func NewEntity() Entity {
	now := time.Now()
	return Entity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OrgEntity is the base for rows owned by an organization. BranchID is
// nullable: a nil branch marks the row as shared across every branch of
// the organization.
type OrgEntity struct {
	Entity
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
}

// NewOrgEntity creates an organization-owned entity
func NewOrgEntity(organizationID uuid.UUID, branchID *uuid.UUID) OrgEntity {
	return OrgEntity{
		Entity:         NewEntity(),
		OrganizationID: organizationID,
		BranchID:       branchID,
	}
}

// Touch updates the modification timestamp
func (e *Entity) Touch() {
	e.UpdatedAt = time.Now()
}

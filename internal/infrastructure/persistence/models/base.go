// Package models contains GORM persistence models that map to database
// tables. Domain entities stay free of ORM tags; mappers convert between
// the two.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// FromDomainEntity populates BaseModel from a domain Entity
func (m *BaseModel) FromDomainEntity(e shared.Entity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// ToDomain converts BaseModel to a domain Entity
func (m *BaseModel) ToDomain() shared.Entity {
	return shared.Entity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// OrgModel provides common persistence fields for organization-owned rows.
// BranchID is nullable: NULL marks the row as shared across every branch
// of the organization.
type OrgModel struct {
	BaseModel
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	BranchID       *uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainOrgEntity populates OrgModel from a domain OrgEntity
func (m *OrgModel) FromDomainOrgEntity(e shared.OrgEntity) {
	m.FromDomainEntity(e.Entity)
	m.OrganizationID = e.OrganizationID
	m.BranchID = e.BranchID
}

// ToDomainOrgEntity converts OrgModel to a domain OrgEntity
func (m *OrgModel) ToDomainOrgEntity() shared.OrgEntity {
	return shared.OrgEntity{
		Entity:         m.ToDomain(),
		OrganizationID: m.OrganizationID,
		BranchID:       m.BranchID,
	}
}

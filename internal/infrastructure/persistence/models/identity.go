package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
)

// PermissionsColumn stores a capability map as a JSONB column
type PermissionsColumn identity.PermissionSet

// Value implements driver.Valuer
func (p PermissionsColumn) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *PermissionsColumn) Scan(value any) error {
	if value == nil {
		*p = PermissionsColumn{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported permissions column type %T", value)
	}
	return json.Unmarshal(data, p)
}

// ProfileModel is the persistence model for the Profile domain entity
type ProfileModel struct {
	UserID         uuid.UUID              `gorm:"type:uuid;primary_key"`
	Email          string                 `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName    string                 `gorm:"type:varchar(255)"`
	PasswordHash   string                 `gorm:"type:varchar(255);not null"`
	Role           identity.Role          `gorm:"type:varchar(32);not null"`
	OrganizationID *uuid.UUID             `gorm:"type:uuid;index"`
	BranchID       *uuid.UUID             `gorm:"type:uuid"`
	Permissions    PermissionsColumn      `gorm:"type:jsonb;not null;default:'{}'"`
	Status         identity.ProfileStatus `gorm:"type:varchar(32);not null;default:'active'"`
	LastLoginAt    *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		UserID:         m.UserID,
		Email:          m.Email,
		DisplayName:    m.DisplayName,
		PasswordHash:   m.PasswordHash,
		Role:           m.Role,
		OrganizationID: m.OrganizationID,
		BranchID:       m.BranchID,
		Permissions:    identity.PermissionSet(m.Permissions).Clone(),
		Status:         m.Status,
		LastLoginAt:    m.LastLoginAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Profile
func (m *ProfileModel) FromDomain(p *identity.Profile) {
	m.UserID = p.UserID
	m.Email = p.Email
	m.DisplayName = p.DisplayName
	m.PasswordHash = p.PasswordHash
	m.Role = p.Role
	m.OrganizationID = p.OrganizationID
	m.BranchID = p.BranchID
	m.Permissions = PermissionsColumn(p.Permissions.Clone())
	m.Status = p.Status
	m.LastLoginAt = p.LastLoginAt
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// ProfileModelFromDomain creates a persistence model from a domain Profile
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(p)
	return m
}

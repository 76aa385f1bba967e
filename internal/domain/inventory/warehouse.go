package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// Warehouse is a storage location. A warehouse with a nil branch is shared
// organization-wide and visible to every branch of the organization.
type Warehouse struct {
	shared.OrgEntity
	Code     string
	Name     string
	Address  string
	IsActive bool
}

// NewWarehouse creates a warehouse; pass a nil branch for a shared one
func NewWarehouse(organizationID uuid.UUID, branchID *uuid.UUID, code, name string) (*Warehouse, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Code and name are required")
	}

	return &Warehouse{
		OrgEntity: shared.NewOrgEntity(organizationID, branchID),
		Code:      strings.ToUpper(code),
		Name:      name,
		IsActive:  true,
	}, nil
}

// Shared reports whether the warehouse is visible across branches
func (w *Warehouse) Shared() bool {
	return w.BranchID == nil
}

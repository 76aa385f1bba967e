package inventory

import (
	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementIn       MovementType = "in"
	MovementOut      MovementType = "out"
	MovementTransfer MovementType = "transfer"
)

// StockMovement is an append-only record of stock entering, leaving or
// moving between warehouses. Movements are never updated or deleted.
type StockMovement struct {
	shared.OrgEntity
	ProductID     uuid.UUID
	WarehouseID   uuid.UUID
	ToWarehouseID *uuid.UUID // set for transfers only
	Type          MovementType
	Quantity      int64
	Reference     string
	CreatedBy     uuid.UUID
}

// NewStockMovement records a movement of quantity units
func NewStockMovement(organizationID uuid.UUID, branchID *uuid.UUID, productID, warehouseID, createdBy uuid.UUID, typ MovementType, quantity int64) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	switch typ {
	case MovementIn, MovementOut, MovementTransfer:
	default:
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}

	return &StockMovement{
		OrgEntity:   shared.NewOrgEntity(organizationID, branchID),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Type:        typ,
		Quantity:    quantity,
		CreatedBy:   createdBy,
	}, nil
}

// WithDestination marks the movement as a transfer into another warehouse
func (m *StockMovement) WithDestination(toWarehouseID uuid.UUID) *StockMovement {
	m.Type = MovementTransfer
	m.ToWarehouseID = &toWarehouseID
	return m
}

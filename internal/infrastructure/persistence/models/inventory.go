package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/inventory"
)

// ProductModel is the persistence model for the Product domain entity
type ProductModel struct {
	OrgModel
	SKU      string          `gorm:"type:varchar(64);not null;index"`
	Name     string          `gorm:"type:varchar(255);not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity int64           `gorm:"not null;default:0"`
	IsActive bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *inventory.Product {
	return &inventory.Product{
		OrgEntity: m.ToDomainOrgEntity(),
		SKU:       m.SKU,
		Name:      m.Name,
		Price:     m.Price,
		Quantity:  m.Quantity,
		IsActive:  m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *inventory.Product) {
	m.FromDomainOrgEntity(p.OrgEntity)
	m.SKU = p.SKU
	m.Name = p.Name
	m.Price = p.Price
	m.Quantity = p.Quantity
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a persistence model from a domain Product
func ProductModelFromDomain(p *inventory.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// WarehouseModel is the persistence model for the Warehouse domain entity
type WarehouseModel struct {
	OrgModel
	Code     string `gorm:"type:varchar(64);not null"`
	Name     string `gorm:"type:varchar(255);not null"`
	Address  string `gorm:"type:varchar(255)"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the persistence model to a domain Warehouse
func (m *WarehouseModel) ToDomain() *inventory.Warehouse {
	return &inventory.Warehouse{
		OrgEntity: m.ToDomainOrgEntity(),
		Code:      m.Code,
		Name:      m.Name,
		Address:   m.Address,
		IsActive:  m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Warehouse
func (m *WarehouseModel) FromDomain(w *inventory.Warehouse) {
	m.FromDomainOrgEntity(w.OrgEntity)
	m.Code = w.Code
	m.Name = w.Name
	m.Address = w.Address
	m.IsActive = w.IsActive
}

// WarehouseModelFromDomain creates a persistence model from a domain Warehouse
func WarehouseModelFromDomain(w *inventory.Warehouse) *WarehouseModel {
	m := &WarehouseModel{}
	m.FromDomain(w)
	return m
}

// StockMovementModel is the persistence model for the StockMovement entity.
// Movements are append-only; the repository never updates them.
type StockMovementModel struct {
	OrgModel
	ProductID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	WarehouseID   uuid.UUID              `gorm:"type:uuid;not null"`
	ToWarehouseID *uuid.UUID             `gorm:"type:uuid"`
	Type          inventory.MovementType `gorm:"type:varchar(16);not null"`
	Quantity      int64                  `gorm:"not null"`
	Reference     string                 `gorm:"type:varchar(255)"`
	CreatedBy     uuid.UUID              `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		OrgEntity:     m.ToDomainOrgEntity(),
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		ToWarehouseID: m.ToWarehouseID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		CreatedBy:     m.CreatedBy,
	}
}

// StockMovementModelFromDomain creates a persistence model from a domain StockMovement
func StockMovementModelFromDomain(sm *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{}
	m.FromDomainOrgEntity(sm.OrgEntity)
	m.ProductID = sm.ProductID
	m.WarehouseID = sm.WarehouseID
	m.ToWarehouseID = sm.ToWarehouseID
	m.Type = sm.Type
	m.Quantity = sm.Quantity
	m.Reference = sm.Reference
	m.CreatedBy = sm.CreatedBy
	return m
}

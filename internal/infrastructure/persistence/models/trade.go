package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/purchase"
	"github.com/stockpilot/backend/internal/domain/sales"
)

// SalesOrderModel is the persistence model for the sales Order aggregate
type SalesOrderModel struct {
	OrgModel
	OrderNo      string                `gorm:"type:varchar(32);not null;index"`
	CustomerName string                `gorm:"type:varchar(255);not null"`
	Status       sales.OrderStatus     `gorm:"type:varchar(16);not null"`
	Total        decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	CreatedBy    uuid.UUID             `gorm:"type:uuid;not null"`
	Items        []SalesOrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// SalesOrderItemModel is the persistence model for one sales order line
type SalesOrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// ToDomain converts the persistence model to a domain sales Order
func (m *SalesOrderModel) ToDomain() *sales.Order {
	items := make([]sales.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, sales.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return &sales.Order{
		OrgEntity:    m.ToDomainOrgEntity(),
		OrderNo:      m.OrderNo,
		CustomerName: m.CustomerName,
		Status:       m.Status,
		Items:        items,
		Total:        m.Total,
		CreatedBy:    m.CreatedBy,
	}
}

// SalesOrderModelFromDomain creates a persistence model from a domain sales Order
func SalesOrderModelFromDomain(o *sales.Order) *SalesOrderModel {
	m := &SalesOrderModel{}
	m.FromDomainOrgEntity(o.OrgEntity)
	m.OrderNo = o.OrderNo
	m.CustomerName = o.CustomerName
	m.Status = o.Status
	m.Total = o.Total
	m.CreatedBy = o.CreatedBy
	m.Items = make([]SalesOrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		m.Items = append(m.Items, SalesOrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return m
}

// PurchaseOrderModel is the persistence model for the purchase Order entity
type PurchaseOrderModel struct {
	OrgModel
	OrderNo      string               `gorm:"type:varchar(32);not null;index"`
	SupplierName string               `gorm:"type:varchar(255);not null"`
	Status       purchase.OrderStatus `gorm:"type:varchar(16);not null"`
	Total        decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	CreatedBy    uuid.UUID            `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain purchase Order
func (m *PurchaseOrderModel) ToDomain() *purchase.Order {
	return &purchase.Order{
		OrgEntity:    m.ToDomainOrgEntity(),
		OrderNo:      m.OrderNo,
		SupplierName: m.SupplierName,
		Status:       m.Status,
		Total:        m.Total,
		CreatedBy:    m.CreatedBy,
	}
}

// PurchaseOrderModelFromDomain creates a persistence model from a domain purchase Order
func PurchaseOrderModelFromDomain(o *purchase.Order) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomainOrgEntity(o.OrgEntity)
	m.OrderNo = o.OrderNo
	m.SupplierName = o.SupplierName
	m.Status = o.Status
	m.Total = o.Total
	m.CreatedBy = o.CreatedBy
	return m
}

// Package inventory holds the product, warehouse and stock movement
// entities. All of them are organization-owned; warehouses and movements
// may additionally be branch-scoped or shared (null branch).
package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// Product represents a sellable item of an organization
type Product struct {
	shared.OrgEntity
	SKU      string
	Name     string
	Price    decimal.Decimal
	Quantity int64
	IsActive bool
}

// NewProduct creates a product owned by the given organization/branch
func NewProduct(organizationID uuid.UUID, branchID *uuid.UUID, sku, name string, price decimal.Decimal) (*Product, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	if sku == "" || name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "SKU and name are required")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		OrgEntity: shared.NewOrgEntity(organizationID, branchID),
		SKU:       sku,
		Name:      name,
		Price:     price,
		IsActive:  true,
	}, nil
}

// Adjust changes the on-hand quantity by delta, rejecting negative stock
func (p *Product) Adjust(delta int64) error {
	if p.Quantity+delta < 0 {
		return shared.ErrInsufficientStock
	}
	p.Quantity += delta
	p.Touch()
	return nil
}

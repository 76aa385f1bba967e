package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
)

// ProductRepository defines persistence operations for products. Scoped
// methods take the caller's tenant context and never return rows of
// another organization; ListForOrganization serves explicitly targeted
// cross-tenant reads by unrestricted callers.
type ProductRepository interface {
	FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, tc *identity.TenantContext, sku string) (*Product, error)
	List(ctx context.Context, tc *identity.TenantContext) ([]Product, error)
	ListForOrganization(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, tc *identity.TenantContext, product *Product) error
}

// WarehouseRepository defines persistence operations for warehouses
type WarehouseRepository interface {
	FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*Warehouse, error)
	List(ctx context.Context, tc *identity.TenantContext) ([]Warehouse, error)
	ListForOrganization(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]Warehouse, error)
	Create(ctx context.Context, warehouse *Warehouse) error
	Update(ctx context.Context, tc *identity.TenantContext, warehouse *Warehouse) error
}

// StockMovementRepository defines persistence operations for stock
// movements. Movements are append-only: there is no update or delete.
type StockMovementRepository interface {
	FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*StockMovement, error)
	ListByProduct(ctx context.Context, tc *identity.TenantContext, productID uuid.UUID) ([]StockMovement, error)
	List(ctx context.Context, tc *identity.TenantContext) ([]StockMovement, error)
	Create(ctx context.Context, movement *StockMovement) error
}

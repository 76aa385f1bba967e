package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/inventory"
)

// OrderRepository defines persistence operations for sales orders
type OrderRepository interface {
	FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*Order, error)
	List(ctx context.Context, tc *identity.TenantContext) ([]Order, error)
	ListForOrganization(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]Order, error)
	Create(ctx context.Context, order *Order) error
	Update(ctx context.Context, tc *identity.TenantContext, order *Order) error
}

// UnitOfWork runs order and stock mutations atomically. Every write the
// callback performs through the repositories it receives is applied on
// success and discarded on error; a half-deducted confirmation must never
// survive.
type UnitOfWork interface {
	InTransaction(ctx context.Context, fn func(orders OrderRepository, products inventory.ProductRepository) error) error
}

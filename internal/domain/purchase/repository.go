package purchase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
)

// OrderRepository defines persistence operations for purchase orders
type OrderRepository interface {
	FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*Order, error)
	List(ctx context.Context, tc *identity.TenantContext) ([]Order, error)
	ListForOrganization(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]Order, error)
	Create(ctx context.Context, order *Order) error
	Update(ctx context.Context, tc *identity.TenantContext, order *Order) error
}

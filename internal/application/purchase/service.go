// Package purchase contains the application service for purchase orders.
package purchase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/purchase"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/orgscope"
	"go.uber.org/zap"
)

// Service coordinates purchase order operations
type Service struct {
	orders purchase.OrderRepository
	logger *zap.Logger
}

// NewService creates a new purchase Service
func NewService(orders purchase.OrderRepository, logger *zap.Logger) *Service {
	return &Service{
		orders: orders,
		logger: logger,
	}
}

// CreateOrderInput contains data for creating a purchase order
type CreateOrderInput struct {
	SupplierName string          `json:"supplier_name" binding:"required"`
	Total        decimal.Decimal `json:"total"`
}

// List returns the purchase orders visible to the caller
func (s *Service) List(ctx context.Context, tc *identity.TenantContext, targetOrg *uuid.UUID) ([]purchase.Order, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}
	if tc.Unrestricted() && targetOrg != nil {
		return s.orders.ListForOrganization(ctx, *targetOrg, nil)
	}
	return s.orders.List(ctx, tc)
}

// Get returns one purchase order within the caller's scope
func (s *Service) Get(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*purchase.Order, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}
	return s.orders.FindByID(ctx, tc, id)
}

// Create creates a draft purchase order owned by the caller's organization
func (s *Service) Create(ctx context.Context, tc *identity.TenantContext, target *orgscope.Target, input CreateOrderInput) (*purchase.Order, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}

	defaults, err := insertDefaults(tc, target)
	if err != nil {
		return nil, err
	}

	order, err := purchase.NewOrder(defaults.OrganizationID, defaults.BranchID, input.SupplierName, input.Total, tc.UserID())
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_no", order.OrderNo),
		zap.String("organization_id", defaults.OrganizationID.String()))
	return order, nil
}

// MarkOrdered moves a draft purchase order to ordered
func (s *Service) MarkOrdered(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*purchase.Order, error) {
	return s.transition(ctx, tc, id, (*purchase.Order).MarkOrdered)
}

// MarkReceived moves an ordered purchase order to received
func (s *Service) MarkReceived(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*purchase.Order, error) {
	return s.transition(ctx, tc, id, (*purchase.Order).MarkReceived)
}

func (s *Service) transition(ctx context.Context, tc *identity.TenantContext, id uuid.UUID, fn func(*purchase.Order) error) (*purchase.Order, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}

	order, err := s.orders.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, tc, order); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)))
	return order, nil
}

func insertDefaults(tc *identity.TenantContext, target *orgscope.Target) (orgscope.Defaults, error) {
	if tc.Unrestricted() {
		if target == nil {
			return orgscope.Defaults{}, orgscope.ErrExplicitTargetRequired
		}
		return orgscope.DefaultsFromTarget(*target)
	}
	return orgscope.InsertDefaults(tc)
}

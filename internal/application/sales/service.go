// Package sales contains the application service for sales orders.
package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/sales"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/orgscope"
	"go.uber.org/zap"
)

// Service coordinates sales order operations
type Service struct {
	orders   sales.OrderRepository
	products inventory.ProductRepository
	uow      sales.UnitOfWork
	logger   *zap.Logger
}

// NewService creates a new sales Service
func NewService(orders sales.OrderRepository, products inventory.ProductRepository, uow sales.UnitOfWork, logger *zap.Logger) *Service {
	return &Service{
		orders:   orders,
		products: products,
		uow:      uow,
		logger:   logger,
	}
}

// OrderItemInput is one requested line of a new order
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderInput contains data for creating a sales order
type CreateOrderInput struct {
	CustomerName string           `json:"customer_name" binding:"required"`
	Items        []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// List returns the sales orders visible to the caller
func (s *Service) List(ctx context.Context, tc *identity.TenantContext, targetOrg *uuid.UUID) ([]sales.Order, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}
	if tc.Unrestricted() && targetOrg != nil {
		return s.orders.ListForOrganization(ctx, *targetOrg, nil)
	}
	return s.orders.List(ctx, tc)
}

// Get returns one order within the caller's scope
func (s *Service) Get(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*sales.Order, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}
	return s.orders.FindByID(ctx, tc, id)
}

// Create builds a draft order priced from the caller's own catalog. Line
// prices are read through the scoped product repository, so an order can
// only reference products the caller can see.
func (s *Service) Create(ctx context.Context, tc *identity.TenantContext, target *orgscope.Target, input CreateOrderInput) (*sales.Order, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}

	defaults, err := insertDefaults(tc, target)
	if err != nil {
		return nil, err
	}

	order, err := sales.NewOrder(defaults.OrganizationID, defaults.BranchID, input.CustomerName, tc.UserID())
	if err != nil {
		return nil, err
	}

	for _, item := range input.Items {
		product, err := s.products.FindByID(ctx, tc, item.ProductID)
		if err != nil {
			return nil, err
		}
		if err := order.AddItem(product.ID, item.Quantity, product.Price); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Sales order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_no", order.OrderNo),
		zap.String("organization_id", defaults.OrganizationID.String()),
		zap.String("total", order.Total.String()))
	return order, nil
}

// Confirm confirms a draft order and deducts stock for its lines. The
// confirmation and every deduction commit together or not at all: a
// failure on any line leaves the order draft and the stock untouched.
func (s *Service) Confirm(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*sales.Order, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}

	var order *sales.Order
	err := s.uow.InTransaction(ctx, func(orders sales.OrderRepository, products inventory.ProductRepository) error {
		var err error
		order, err = orders.FindByID(ctx, tc, id)
		if err != nil {
			return err
		}
		if err := order.Confirm(); err != nil {
			return err
		}

		for _, item := range order.Items {
			product, err := products.FindByID(ctx, tc, item.ProductID)
			if err != nil {
				return err
			}
			if err := product.Adjust(-item.Quantity); err != nil {
				return err
			}
			if err := products.Update(ctx, tc, product); err != nil {
				return err
			}
		}

		return orders.Update(ctx, tc, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sales order confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_no", order.OrderNo))
	return order, nil
}

// Cancel cancels an order within the caller's scope
func (s *Service) Cancel(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*sales.Order, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}

	order, err := s.orders.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, tc, order); err != nil {
		return nil, err
	}

	s.logger.Info("Sales order cancelled", zap.String("order_id", order.ID.String()))
	return order, nil
}

// Total sums the totals of the orders visible to the caller
func (s *Service) Total(ctx context.Context, tc *identity.TenantContext) (decimal.Decimal, error) {
	if tc == nil {
		return decimal.Zero, shared.ErrUnauthorized
	}

	orders, err := s.orders.List(ctx, tc)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, order := range orders {
		if order.Status != sales.OrderStatusCancelled {
			total = total.Add(order.Total)
		}
	}
	return total, nil
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

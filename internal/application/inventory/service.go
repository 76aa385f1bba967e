// Package inventory contains the application services for products,
// warehouses and stock movements.
package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/orgscope"
	"go.uber.org/zap"
)

// Service coordinates inventory operations. Every method takes the
// caller's tenant context; a nil context is rejected before any data
// access happens.
type Service struct {
	products   inventory.ProductRepository
	warehouses inventory.WarehouseRepository
	movements  inventory.StockMovementRepository
	logger     *zap.Logger
}

// NewService creates a new inventory Service
func NewService(
	products inventory.ProductRepository,
	warehouses inventory.WarehouseRepository,
	movements inventory.StockMovementRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		products:   products,
		warehouses: warehouses,
		movements:  movements,
		logger:     logger,
	}
}

// CreateProductInput contains data for creating a product
type CreateProductInput struct {
	SKU   string          `json:"sku" binding:"required"`
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

// CreateMovementInput contains data for recording a stock movement
type CreateMovementInput struct {
	ProductID     uuid.UUID              `json:"product_id" binding:"required"`
	WarehouseID   uuid.UUID              `json:"warehouse_id" binding:"required"`
	ToWarehouseID *uuid.UUID             `json:"to_warehouse_id"`
	Type          inventory.MovementType `json:"type" binding:"required,movementtype"`
	Quantity      int64                  `json:"quantity" binding:"required"`
	Reference     string                 `json:"reference"`
}

// ListProducts returns the products visible to the caller. An
// unrestricted caller may name a target organization; without one it sees
// every organization's products.
func (s *Service) ListProducts(ctx context.Context, tc *identity.TenantContext, targetOrg *uuid.UUID) ([]inventory.Product, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}
	if tc.Unrestricted() && targetOrg != nil {
		return s.products.ListForOrganization(ctx, *targetOrg, nil)
	}
	return s.products.List(ctx, tc)
}

// GetProduct returns one product within the caller's scope
func (s *Service) GetProduct(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*inventory.Product, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}
	return s.products.FindByID(ctx, tc, id)
}

// CreateProduct creates a product owned by the caller's organization. A
// branch-bound caller may only read; creation requires organization-wide
// affiliation or an explicit super-admin target.
func (s *Service) CreateProduct(ctx context.Context, tc *identity.TenantContext, target *orgscope.Target, input CreateProductInput) (*inventory.Product, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}

	defaults, err := s.insertDefaults(tc, target)
	if err != nil {
		return nil, err
	}

	product, err := inventory.NewProduct(defaults.OrganizationID, defaults.BranchID, input.SKU, input.Name, input.Price)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("organization_id", defaults.OrganizationID.String()),
		zap.String("sku", product.SKU))
	return product, nil
}

// UpdateProduct persists changes to a product within the caller's scope
func (s *Service) UpdateProduct(ctx context.Context, tc *identity.TenantContext, product *inventory.Product) error {
	if tc == nil {
		return shared.ErrUnauthorized
	}
	return s.products.Update(ctx, tc, product)
}

// ListWarehouses returns the warehouses visible to the caller, shared
// ones included
func (s *Service) ListWarehouses(ctx context.Context, tc *identity.TenantContext, targetOrg *uuid.UUID) ([]inventory.Warehouse, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}
	if tc.Unrestricted() && targetOrg != nil {
		return s.warehouses.ListForOrganization(ctx, *targetOrg, nil)
	}
	return s.warehouses.List(ctx, tc)
}

// CreateWarehouse creates a warehouse owned by the caller's organization
func (s *Service) CreateWarehouse(ctx context.Context, tc *identity.TenantContext, target *orgscope.Target, code, name string) (*inventory.Warehouse, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}

	defaults, err := s.insertDefaults(tc, target)
	if err != nil {
		return nil, err
	}

	warehouse, err := inventory.NewWarehouse(defaults.OrganizationID, defaults.BranchID, code, name)
	if err != nil {
		return nil, err
	}
	if err := s.warehouses.Create(ctx, warehouse); err != nil {
		return nil, err
	}

	s.logger.Info("Warehouse created",
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("organization_id", defaults.OrganizationID.String()))
	return warehouse, nil
}

// ListMovements returns the stock movements visible to the caller
func (s *Service) ListMovements(ctx context.Context, tc *identity.TenantContext) ([]inventory.StockMovement, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}
	return s.movements.List(ctx, tc)
}

// RecordMovement appends a stock movement and adjusts the product's
// on-hand quantity. The product lookup is scoped, so a movement can never
// touch another organization's stock.
func (s *Service) RecordMovement(ctx context.Context, tc *identity.TenantContext, target *orgscope.Target, input CreateMovementInput) (*inventory.StockMovement, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}

	defaults, err := s.insertDefaults(tc, target)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, tc, input.ProductID)
	if err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(
		defaults.OrganizationID, defaults.BranchID,
		input.ProductID, input.WarehouseID, tc.UserID(),
		input.Type, input.Quantity,
	)
	if err != nil {
		return nil, err
	}
	movement.Reference = input.Reference
	if input.Type == inventory.MovementTransfer {
		if input.ToWarehouseID == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Transfer requires a destination warehouse")
		}
		movement.WithDestination(*input.ToWarehouseID)
	}

	delta := input.Quantity
	switch input.Type {
	case inventory.MovementOut:
		delta = -delta
	case inventory.MovementTransfer:
		delta = 0
	}
	if delta != 0 {
		if err := product.Adjust(delta); err != nil {
			return nil, err
		}
		if err := s.products.Update(ctx, tc, product); err != nil {
			return nil, err
		}
	}

	if err := s.movements.Create(ctx, movement); err != nil {
		return nil, err
	}

	s.logger.Info("Stock movement recorded",
		zap.String("movement_id", movement.ID.String()),
		zap.String("product_id", input.ProductID.String()),
		zap.String("type", string(input.Type)),
		zap.Int64("quantity", input.Quantity))
	return movement, nil
}

// insertDefaults derives ownership for a write. Scoped callers stamp
// their own organization/branch; unrestricted callers must supply an
// explicit target.
func (s *Service) insertDefaults(tc *identity.TenantContext, target *orgscope.Target) (orgscope.Defaults, error) {
	if tc.Unrestricted() {
		if target == nil {
			return orgscope.Defaults{}, orgscope.ErrExplicitTargetRequired
		}
		return orgscope.DefaultsFromTarget(*target)
	}
	return orgscope.InsertDefaults(tc)
}

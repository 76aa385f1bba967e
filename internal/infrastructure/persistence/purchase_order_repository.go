package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/purchase"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/models"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/orgscope"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements purchase.OrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by id within the caller's scope
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*purchase.Order, error) {
	var model models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.OrganizationScope(tc)).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns the purchase orders visible to the caller, newest first
func (r *GormPurchaseOrderRepository) List(ctx context.Context, tc *identity.TenantContext) ([]purchase.Order, error) {
	var rows []models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.OrganizationScope(tc)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return purchaseOrdersToDomain(rows), nil
}

// ListForOrganization returns the purchase orders of an explicitly
// targeted organization
func (r *GormPurchaseOrderRepository) ListForOrganization(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]purchase.Order, error) {
	var rows []models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.TargetScope(orgscope.Target{OrganizationID: organizationID, BranchID: branchID})).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return purchaseOrdersToDomain(rows), nil
}

// Create persists a new purchase order
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *purchase.Order) error {
	return r.db.WithContext(ctx).Create(models.PurchaseOrderModelFromDomain(order)).Error
}

// Update persists changes to a purchase order within the caller's scope
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, tc *identity.TenantContext, order *purchase.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Scopes(orgscope.OrganizationScope(tc)).
		Where("id = ?", order.ID).
		Select("status", "supplier_name", "total", "updated_at").
		Updates(models.PurchaseOrderModelFromDomain(order))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func purchaseOrdersToDomain(rows []models.PurchaseOrderModel) []purchase.Order {
	orders := make([]purchase.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders
}

// Ensure GormPurchaseOrderRepository implements purchase.OrderRepository
var _ purchase.OrderRepository = (*GormPurchaseOrderRepository)(nil)

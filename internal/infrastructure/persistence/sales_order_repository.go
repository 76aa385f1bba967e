package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/sales"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/models"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/orgscope"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements sales.OrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order with its items within the caller's scope
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*sales.Order, error) {
	var model models.SalesOrderModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.OrganizationScope(tc)).
		Preload("Items").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns the sales orders visible to the caller, newest first
func (r *GormSalesOrderRepository) List(ctx context.Context, tc *identity.TenantContext) ([]sales.Order, error) {
	var rows []models.SalesOrderModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.OrganizationScope(tc)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return salesOrdersToDomain(rows), nil
}

// ListForOrganization returns the sales orders of an explicitly targeted
// organization
func (r *GormSalesOrderRepository) ListForOrganization(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]sales.Order, error) {
	var rows []models.SalesOrderModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.TargetScope(orgscope.Target{OrganizationID: organizationID, BranchID: branchID})).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return salesOrdersToDomain(rows), nil
}

// Create persists a new sales order with its items
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *sales.Order) error {
	return r.db.WithContext(ctx).Create(models.SalesOrderModelFromDomain(order)).Error
}

// Update persists status and item changes within the caller's scope.
// Items are replaced wholesale inside a transaction.
func (r *GormSalesOrderRepository) Update(ctx context.Context, tc *identity.TenantContext, order *sales.Order) error {
	model := models.SalesOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SalesOrderModel{}).
			Scopes(orgscope.OrganizationScope(tc)).
			Where("id = ?", order.ID).
			Select("status", "customer_name", "total", "updated_at").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("order_id = ?", order.ID).
			Delete(&models.SalesOrderItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(model.Items).Error
	})
}

func salesOrdersToDomain(rows []models.SalesOrderModel) []sales.Order {
	orders := make([]sales.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders
}

// Ensure GormSalesOrderRepository implements sales.OrderRepository
var _ sales.OrderRepository = (*GormSalesOrderRepository)(nil)

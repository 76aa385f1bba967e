package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/models"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/orgscope"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements inventory.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by id within the caller's scope
func (r *GormWarehouseRepository) FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*inventory.Warehouse, error) {
	var model models.WarehouseModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.BranchScope(tc)).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns the warehouses visible to the caller, shared (null branch)
// warehouses included
func (r *GormWarehouseRepository) List(ctx context.Context, tc *identity.TenantContext) ([]inventory.Warehouse, error) {
	var rows []models.WarehouseModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.BranchScope(tc)).
		Order("code ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return warehousesToDomain(rows), nil
}

// ListForOrganization returns the warehouses of an explicitly targeted
// organization
func (r *GormWarehouseRepository) ListForOrganization(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]inventory.Warehouse, error) {
	var rows []models.WarehouseModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.TargetScope(orgscope.Target{OrganizationID: organizationID, BranchID: branchID})).
		Order("code ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return warehousesToDomain(rows), nil
}

// Create persists a new warehouse
func (r *GormWarehouseRepository) Create(ctx context.Context, warehouse *inventory.Warehouse) error {
	return r.db.WithContext(ctx).Create(models.WarehouseModelFromDomain(warehouse)).Error
}

// Update persists changes to a warehouse within the caller's scope
func (r *GormWarehouseRepository) Update(ctx context.Context, tc *identity.TenantContext, warehouse *inventory.Warehouse) error {
	result := r.db.WithContext(ctx).
		Model(&models.WarehouseModel{}).
		Scopes(orgscope.OrganizationScope(tc)).
		Where("id = ?", warehouse.ID).
		Select("code", "name", "address", "is_active", "updated_at").
		Updates(models.WarehouseModelFromDomain(warehouse))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func warehousesToDomain(rows []models.WarehouseModel) []inventory.Warehouse {
	warehouses := make([]inventory.Warehouse, 0, len(rows))
	for i := range rows {
		warehouses = append(warehouses, *rows[i].ToDomain())
	}
	return warehouses
}

// Ensure GormWarehouseRepository implements inventory.WarehouseRepository
var _ inventory.WarehouseRepository = (*GormWarehouseRepository)(nil)

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

// GormProductRepository implements inventory.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by id within the caller's scope. A product of
// another organization reports shared.ErrNotFound, same as a missing one.
func (r *GormProductRepository) FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*inventory.Product, error) {
	var model models.ProductModel
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

// FindBySKU finds a product by SKU within the caller's scope
func (r *GormProductRepository) FindBySKU(ctx context.Context, tc *identity.TenantContext, sku string) (*inventory.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.BranchScope(tc)).
		First(&model, "sku = ?", sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns the products visible to the caller
func (r *GormProductRepository) List(ctx context.Context, tc *identity.TenantContext) ([]inventory.Product, error) {
	var rows []models.ProductModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.BranchScope(tc)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// ListForOrganization returns the products of an explicitly targeted
// organization. Used by unrestricted callers only.
func (r *GormProductRepository) ListForOrganization(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]inventory.Product, error) {
	var rows []models.ProductModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.TargetScope(orgscope.Target{OrganizationID: organizationID, BranchID: branchID})).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// Create persists a new product; ownership columns come stamped on the entity
func (r *GormProductRepository) Create(ctx context.Context, product *inventory.Product) error {
	return r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error
}

// Update persists changes to a product within the caller's scope. An
// update that matches no row in scope reports shared.ErrNotFound whether
// the product is missing or owned by another organization.
func (r *GormProductRepository) Update(ctx context.Context, tc *identity.TenantContext, product *inventory.Product) error {
	model := models.ProductModelFromDomain(product)
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(orgscope.OrganizationScope(tc)).
		Where("id = ?", product.ID).
		Select("sku", "name", "price", "quantity", "is_active", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func productsToDomain(rows []models.ProductModel) []inventory.Product {
	products := make([]inventory.Product, 0, len(rows))
	for i := range rows {
		products = append(products, *rows[i].ToDomain())
	}
	return products
}

// Ensure GormProductRepository implements inventory.ProductRepository
var _ inventory.ProductRepository = (*GormProductRepository)(nil)

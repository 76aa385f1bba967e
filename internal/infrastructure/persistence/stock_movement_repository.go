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

// GormStockMovementRepository implements inventory.StockMovementRepository
// using GORM. The movement ledger is append-only, so the repository
// exposes reads and Create but no update or delete.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByID finds a movement by id within the caller's scope
func (r *GormStockMovementRepository) FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*inventory.StockMovement, error) {
	var model models.StockMovementModel
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

// ListByProduct returns the movements of one product, newest first
func (r *GormStockMovementRepository) ListByProduct(ctx context.Context, tc *identity.TenantContext, productID uuid.UUID) ([]inventory.StockMovement, error) {
	var rows []models.StockMovementModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.BranchScope(tc)).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return movementsToDomain(rows), nil
}

// List returns the movements visible to the caller, newest first
func (r *GormStockMovementRepository) List(ctx context.Context, tc *identity.TenantContext) ([]inventory.StockMovement, error) {
	var rows []models.StockMovementModel
	err := r.db.WithContext(ctx).
		Scopes(orgscope.BranchScope(tc)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return movementsToDomain(rows), nil
}

// Create appends a movement to the ledger
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(models.StockMovementModelFromDomain(movement)).Error
}

func movementsToDomain(rows []models.StockMovementModel) []inventory.StockMovement {
	movements := make([]inventory.StockMovement, 0, len(rows))
	for i := range rows {
		movements = append(movements, *rows[i].ToDomain())
	}
	return movements
}

// Ensure GormStockMovementRepository implements inventory.StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)

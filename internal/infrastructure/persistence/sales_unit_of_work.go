package persistence

import (
	"context"

	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormSalesUnitOfWork runs order and stock writes in one database
// transaction. The callback receives repositories bound to the
// transaction, so a failure on any write rolls back all of them.
type GormSalesUnitOfWork struct {
	db *Database
}

// NewGormSalesUnitOfWork creates a new GormSalesUnitOfWork
func NewGormSalesUnitOfWork(db *Database) *GormSalesUnitOfWork {
	return &GormSalesUnitOfWork{db: db}
}

// InTransaction executes fn atomically against the order and product stores
func (u *GormSalesUnitOfWork) InTransaction(ctx context.Context, fn func(orders sales.OrderRepository, products inventory.ProductRepository) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormSalesOrderRepository(tx.WithContext(ctx)), NewGormProductRepository(tx.WithContext(ctx)))
	})
}

// Ensure GormSalesUnitOfWork implements sales.UnitOfWork
var _ sales.UnitOfWork = (*GormSalesUnitOfWork)(nil)

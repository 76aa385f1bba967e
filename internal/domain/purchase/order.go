// Package purchase holds the purchase order entity.
package purchase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle state of a purchase order
type OrderStatus string

const (
	OrderStatusDraft    OrderStatus = "draft"
	OrderStatusOrdered  OrderStatus = "ordered"
	OrderStatusReceived OrderStatus = "received"
)

// Order is a purchase order placed against a supplier
type Order struct {
	shared.OrgEntity
	OrderNo      string
	SupplierName string
	Status       OrderStatus
	Total        decimal.Decimal
	CreatedBy    uuid.UUID
}

// NewOrder creates a draft purchase order
func NewOrder(organizationID uuid.UUID, branchID *uuid.UUID, supplierName string, total decimal.Decimal, createdBy uuid.UUID) (*Order, error) {
	supplierName = strings.TrimSpace(supplierName)
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier name is required")
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Total cannot be negative")
	}

	entity := shared.NewOrgEntity(organizationID, branchID)
	short := strings.ToUpper(strings.ReplaceAll(entity.ID.String(), "-", ""))[:8]
	return &Order{
		OrgEntity:    entity,
		OrderNo:      fmt.Sprintf("PO-%s-%s", time.Now().Format("20060102"), short),
		SupplierName: supplierName,
		Status:       OrderStatusDraft,
		Total:        total,
		CreatedBy:    createdBy,
	}, nil
}

// MarkOrdered moves a draft order to ordered
func (o *Order) MarkOrdered() error {
	if o.Status != OrderStatusDraft {
		return shared.ErrInvalidState
	}
	o.Status = OrderStatusOrdered
	o.Touch()
	return nil
}

// MarkReceived moves an ordered order to received
func (o *Order) MarkReceived() error {
	if o.Status != OrderStatusOrdered {
		return shared.ErrInvalidState
	}
	o.Status = OrderStatusReceived
	o.Touch()
	return nil
}

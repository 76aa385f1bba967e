// Package sales holds the sales order aggregate.
package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle state of a sales order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a sales order with line items. Orders belong to an organization
// and, when created by a branch user, to that branch.
type Order struct {
	shared.OrgEntity
	OrderNo      string
	CustomerName string
	Status       OrderStatus
	Items        []OrderItem
	Total        decimal.Decimal
	CreatedBy    uuid.UUID
}

// OrderItem is one line of a sales order
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// NewOrder creates a draft order for the given organization/branch
func NewOrder(organizationID uuid.UUID, branchID *uuid.UUID, customerName string, createdBy uuid.UUID) (*Order, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name is required")
	}

	entity := shared.NewOrgEntity(organizationID, branchID)
	return &Order{
		OrgEntity:    entity,
		OrderNo:      generateOrderNo(entity.ID),
		CustomerName: customerName,
		Status:       OrderStatusDraft,
		Total:        decimal.Zero,
		CreatedBy:    createdBy,
	}, nil
}

// AddItem appends a line item and recalculates the total
func (o *Order) AddItem(productID uuid.UUID, quantity int64, unitPrice decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.ErrInvalidState
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	subtotal := unitPrice.Mul(decimal.NewFromInt(quantity))
	o.Items = append(o.Items, OrderItem{
		ID:        uuid.New(),
		OrderID:   o.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  subtotal,
	})
	o.recalculate()
	return nil
}

// Confirm moves a draft order with at least one item to confirmed
func (o *Order) Confirm() error {
	if o.Status != OrderStatusDraft {
		return shared.ErrInvalidState
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order has no items")
	}
	o.Status = OrderStatusConfirmed
	o.Touch()
	return nil
}

// Cancel cancels a draft or confirmed order
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCancelled {
		return shared.ErrInvalidState
	}
	o.Status = OrderStatusCancelled
	o.Touch()
	return nil
}

func (o *Order) recalculate() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	o.Total = total
	o.Touch()
}

func generateOrderNo(id uuid.UUID) string {
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:8]
	return fmt.Sprintf("SO-%s-%s", time.Now().Format("20060102"), short)
}

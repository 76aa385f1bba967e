package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
)

// Repository defines persistence operations for notifications
type Repository interface {
	FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*Notification, error)
	List(ctx context.Context, tc *identity.TenantContext, unreadOnly bool) ([]Notification, error)
	Create(ctx context.Context, n *Notification) error
	Update(ctx context.Context, tc *identity.TenantContext, n *Notification) error
}

// Package notification contains the application service for in-app
// notifications.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/notification"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/orgscope"
	"go.uber.org/zap"
)

// Service coordinates notification operations
type Service struct {
	notifications notification.Repository
	logger        *zap.Logger
}

// NewService creates a new notification Service
func NewService(notifications notification.Repository, logger *zap.Logger) *Service {
	return &Service{
		notifications: notifications,
		logger:        logger,
	}
}

// List returns the notifications visible to the caller, newest first
func (s *Service) List(ctx context.Context, tc *identity.TenantContext, unreadOnly bool) ([]notification.Notification, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}
	return s.notifications.List(ctx, tc, unreadOnly)
}

// Publish creates a notification for the caller's organization, or for an
// explicitly targeted one when the caller is unrestricted
func (s *Service) Publish(ctx context.Context, tc *identity.TenantContext, target *orgscope.Target, title, body string) (*notification.Notification, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}

	defaults, err := insertDefaults(tc, target)
	if err != nil {
		return nil, err
	}

	n, err := notification.New(defaults.OrganizationID, defaults.BranchID, title, body)
	if err != nil {
		return nil, err
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	s.logger.Info("Notification published",
		zap.String("notification_id", n.ID.String()),
		zap.String("organization_id", defaults.OrganizationID.String()))
	return n, nil
}

// MarkRead stamps a notification as read within the caller's scope
func (s *Service) MarkRead(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*notification.Notification, error) {
	if tc == nil {
		return nil, shared.ErrUnauthorized
	}

	n, err := s.notifications.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	n.MarkRead(time.Now())
	if err := s.notifications.Update(ctx, tc, n); err != nil {
		return nil, err
	}
	return n, nil
}

func insertDefaults(tc *identity.TenantContext, target *orgscope.Target) (orgscope.Defaults, error) {
	if tc.Unrestricted() {
		if target == nil {
			return orgscope.Defaults{}, orgscope.ErrExplicitTargetRequired
		}
		return orgscope.DefaultsFromTarget(*target)
	}
	return orgscope.InsertDefaults(tc)
}

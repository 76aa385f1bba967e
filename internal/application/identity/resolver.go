// Package identity contains the application services for authentication,
// tenant context resolution and user administration.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContextResolver builds the tenant context for a request's principal.
//
// The context is rebuilt from the profile store on every call and never
// cached: a permission or affiliation change takes effect on the next
// request. Resolve distinguishes three outcomes:
//
//   - (ctx, nil): the principal resolved to a usable context
//   - (nil, nil): the principal has no usable context (missing profile,
//     deactivated account, or a scoped profile with no organization)
//   - (nil, err): the store could not answer; the caller must treat this
//     as a transient failure, never as a denial
type ContextResolver struct {
	profiles identity.ProfileRepository
	logger   *zap.Logger
}

// NewContextResolver creates a new ContextResolver
func NewContextResolver(profiles identity.ProfileRepository, logger *zap.Logger) *ContextResolver {
	return &ContextResolver{
		profiles: profiles,
		logger:   logger,
	}
}

// Resolve builds a fresh tenant context for the given principal
func (r *ContextResolver) Resolve(ctx context.Context, userID uuid.UUID) (*identity.TenantContext, error) {
	profile, err := r.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			r.logger.Debug("No profile for principal",
				zap.String("user_id", userID.String()))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if !profile.IsActive() {
		r.logger.Info("Deactivated profile resolved to no context",
			zap.String("user_id", userID.String()))
		return nil, nil
	}

	tc, err := identity.NewTenantContext(profile)
	if err != nil {
		if errors.Is(err, identity.ErrOrganizationMissing) {
			// A scoped profile without an organization is a data
			// integrity problem; it must not yield a partial context.
			r.logger.Warn("Profile has no organization, resolving to no context",
				zap.String("user_id", userID.String()),
				zap.String("role", string(profile.Role)))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to build tenant context: %w", err)
	}
	return tc, nil
}

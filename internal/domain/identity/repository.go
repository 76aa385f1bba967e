package identity

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines persistence operations for profiles.
//
// FindByUserID distinguishes absence from failure: a missing profile
// returns shared.ErrNotFound, while an unreachable store returns the
// underlying driver error. Callers must not conflate the two — one is an
// authorization fact, the other an outage.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	// ListByOrganization returns the profiles of one organization,
	// ordered by creation time.
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
}

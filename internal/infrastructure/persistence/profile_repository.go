package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProfileRepository implements identity.ProfileRepository using GORM.
//
// The error contract matters here: a missing row maps to shared.ErrNotFound
// while any other failure is returned as-is, so callers can tell "no such
// principal" apart from "store unavailable".
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByUserID finds a profile by its principal id
func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a profile by email (case-insensitive)
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).
		First(&model, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByOrganization returns the profiles of one organization, ordered by
// creation time
func (r *GormProfileRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*identity.Profile, error) {
	var rows []models.ProfileModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	profiles := make([]*identity.Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].ToDomain())
	}
	return profiles, nil
}

// Create persists a new profile
func (r *GormProfileRepository) Create(ctx context.Context, profile *identity.Profile) error {
	return r.db.WithContext(ctx).Create(models.ProfileModelFromDomain(profile)).Error
}

// Update persists changes to an existing profile
func (r *GormProfileRepository) Update(ctx context.Context, profile *identity.Profile) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProfileModel{}).
		Where("user_id = ?", profile.UserID).
		Updates(models.ProfileModelFromDomain(profile))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProfileRepository implements identity.ProfileRepository
var _ identity.ProfileRepository = (*GormProfileRepository)(nil)

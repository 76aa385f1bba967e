package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/notification"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/models"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/orgscope"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by id within the caller's scope
func (r *GormNotificationRepository) FindByID(ctx context.Context, tc *identity.TenantContext, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
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

// List returns the notifications visible to the caller, newest first
func (r *GormNotificationRepository) List(ctx context.Context, tc *identity.TenantContext, unreadOnly bool) ([]notification.Notification, error) {
	query := r.db.WithContext(ctx).
		Scopes(orgscope.BranchScope(tc))
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var rows []models.NotificationModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	notifications := make([]notification.Notification, 0, len(rows))
	for i := range rows {
		notifications = append(notifications, *rows[i].ToDomain())
	}
	return notifications, nil
}

// Create persists a new notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(n)).Error
}

// Update persists read-state changes within the caller's scope
func (r *GormNotificationRepository) Update(ctx context.Context, tc *identity.TenantContext, n *notification.Notification) error {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Scopes(orgscope.OrganizationScope(tc)).
		Where("id = ?", n.ID).
		Select("read_at", "updated_at").
		Updates(models.NotificationModelFromDomain(n))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormNotificationRepository implements notification.Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)

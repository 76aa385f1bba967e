package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/notification"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newSQLiteDB opens an in-memory database pinned to a single connection
// so every query sees the same schema
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.NotificationModel{}))
	return db
}

func orgWideContext(t *testing.T, organizationID uuid.UUID) *identity.TenantContext {
	t.Helper()

	tc, err := identity.NewTenantContext(&identity.Profile{
		UserID:         uuid.New(),
		Role:           identity.RoleAdmin,
		OrganizationID: &organizationID,
		Permissions:    identity.FullPermissionSet(),
		Status:         identity.ProfileStatusActive,
	})
	require.NoError(t, err)
	return tc
}

func seedNotification(t *testing.T, repo *GormNotificationRepository, organizationID uuid.UUID, branchID *uuid.UUID, title string) *notification.Notification {
	t.Helper()

	n, err := notification.New(organizationID, branchID, title, "body")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestNotificationRepository_ListIsOrganizationScoped(t *testing.T) {
	repo := NewGormNotificationRepository(newSQLiteDB(t))
	orgA := uuid.New()
	orgB := uuid.New()

	seedNotification(t, repo, orgA, nil, "for A")
	seedNotification(t, repo, orgB, nil, "for B")

	rows, err := repo.List(context.Background(), orgWideContext(t, orgA), false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "for A", rows[0].Title)
}

func TestNotificationRepository_BranchFilterIncludesSharedRows(t *testing.T) {
	repo := NewGormNotificationRepository(newSQLiteDB(t))
	org := uuid.New()
	branch := uuid.New()
	otherBranch := uuid.New()

	seedNotification(t, repo, org, nil, "shared")
	seedNotification(t, repo, org, &branch, "for branch")
	seedNotification(t, repo, org, &otherBranch, "for other branch")

	rows, err := repo.List(context.Background(), branchContext(t, org, branch), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	titles := []string{rows[0].Title, rows[1].Title}
	assert.Contains(t, titles, "shared")
	assert.Contains(t, titles, "for branch")
}

func TestNotificationRepository_UnreadOnly(t *testing.T) {
	repo := NewGormNotificationRepository(newSQLiteDB(t))
	org := uuid.New()
	tc := orgWideContext(t, org)

	read := seedNotification(t, repo, org, nil, "read")
	seedNotification(t, repo, org, nil, "unread")

	read.MarkRead(time.Now())
	require.NoError(t, repo.Update(context.Background(), tc, read))

	rows, err := repo.List(context.Background(), tc, true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "unread", rows[0].Title)
}

func TestNotificationRepository_CrossOrganizationIsNotFound(t *testing.T) {
	repo := NewGormNotificationRepository(newSQLiteDB(t))
	orgA := uuid.New()
	orgB := uuid.New()

	n := seedNotification(t, repo, orgA, nil, "for A")
	outsider := orgWideContext(t, orgB)

	_, err := repo.FindByID(context.Background(), outsider, n.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	n.MarkRead(time.Now())
	err = repo.Update(context.Background(), outsider, n)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestNotificationRepository_MarkReadRoundTrip(t *testing.T) {
	repo := NewGormNotificationRepository(newSQLiteDB(t))
	org := uuid.New()
	tc := orgWideContext(t, org)

	n := seedNotification(t, repo, org, nil, "ping")
	n.MarkRead(time.Now())
	require.NoError(t, repo.Update(context.Background(), tc, n))

	got, err := repo.FindByID(context.Background(), tc, n.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ReadAt)
}

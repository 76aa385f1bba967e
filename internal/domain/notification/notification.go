// Package notification holds the in-app notification entity.
package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// Notification is an in-app notice addressed to an organization. A nil
// branch means the notice is visible to every branch of the organization.
type Notification struct {
	shared.OrgEntity
	Title  string
	Body   string
	ReadAt *time.Time
}

// New creates a notification for the given organization/branch
func New(organizationID uuid.UUID, branchID *uuid.UUID, title, body string) (*Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Title is required")
	}

	return &Notification{
		OrgEntity: shared.NewOrgEntity(organizationID, branchID),
		Title:     title,
		Body:      body,
	}, nil
}

// MarkRead stamps the notification as read; marking twice is a no-op
func (n *Notification) MarkRead(at time.Time) {
	if n.ReadAt != nil {
		return
	}
	n.ReadAt = &at
	n.Touch()
}

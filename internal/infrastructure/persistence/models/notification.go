package models

import (
	"time"

	"github.com/stockpilot/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for the Notification entity
type NotificationModel struct {
	OrgModel
	Title  string `gorm:"type:varchar(255);not null"`
	Body   string `gorm:"type:text"`
	ReadAt *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		OrgEntity: m.ToDomainOrgEntity(),
		Title:     m.Title,
		Body:      m.Body,
		ReadAt:    m.ReadAt,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomainOrgEntity(n.OrgEntity)
	m.Title = n.Title
	m.Body = n.Body
	m.ReadAt = n.ReadAt
	return m
}

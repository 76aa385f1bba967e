package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	appnotification "github.com/stockpilot/backend/internal/application/notification"
	"github.com/stockpilot/backend/internal/domain/notification"
)

// NotificationHandler serves in-app notifications
type NotificationHandler struct {
	BaseHandler
	notifications *appnotification.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service *appnotification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: service}
}

// NotificationResponse is the JSON shape of a notification
type NotificationResponse struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	BranchID       *string    `json:"branch_id"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"read_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

func notificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:             n.ID.String(),
		OrganizationID: n.OrganizationID.String(),
		BranchID:       uuidPtr(n.BranchID),
		Title:          n.Title,
		Body:           n.Body,
		ReadAt:         n.ReadAt,
		CreatedAt:      n.CreatedAt,
	}
}

// List handles GET /notifications; pass unread=true for unread only
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notifications.List(c.Request.Context(), tenantContext(c), unreadOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		resp = append(resp, notificationResponse(&notifications[i]))
	}
	h.Success(c, resp)
}

// PublishInput contains data for publishing a notification
type PublishInput struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

// Publish handles POST /notifications
func (h *NotificationHandler) Publish(c *gin.Context) {
	var input PublishInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid notification data")
		return
	}

	target, err := targetFromQuery(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	n, err := h.notifications.Publish(c.Request.Context(), tenantContext(c), target, input.Title, input.Body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, notificationResponse(n))
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	n, err := h.notifications.MarkRead(c.Request.Context(), tenantContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notificationResponse(n))
}

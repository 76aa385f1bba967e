package handler

import (
	"github.com/gin-gonic/gin"
	appinventory "github.com/stockpilot/backend/internal/application/inventory"
	appnotification "github.com/stockpilot/backend/internal/application/notification"
	appsales "github.com/stockpilot/backend/internal/application/sales"
)

// DashboardHandler serves the landing page summary
type DashboardHandler struct {
	BaseHandler
	inventory     *appinventory.Service
	sales         *appsales.Service
	notifications *appnotification.Service
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	inventory *appinventory.Service,
	sales *appsales.Service,
	notifications *appnotification.Service,
) *DashboardHandler {
	return &DashboardHandler{
		inventory:     inventory,
		sales:         sales,
		notifications: notifications,
	}
}

// DashboardResponse is the landing page summary
type DashboardResponse struct {
	ProductCount        int    `json:"product_count"`
	SalesTotal          string `json:"sales_total"`
	UnreadNotifications int    `json:"unread_notifications"`
}

// Summary handles GET /dashboard. Everything in it is read through the
// caller's scope, so the numbers cover exactly what the caller can see.
func (h *DashboardHandler) Summary(c *gin.Context) {
	tc := tenantContext(c)
	ctx := c.Request.Context()

	products, err := h.inventory.ListProducts(ctx, tc, nil)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	total, err := h.sales.Total(ctx, tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	unread, err := h.notifications.List(ctx, tc, true)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DashboardResponse{
		ProductCount:        len(products),
		SalesTotal:          total.String(),
		UnreadNotifications: len(unread),
	})
}

package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	appsales "github.com/stockpilot/backend/internal/application/sales"
	"github.com/stockpilot/backend/internal/domain/sales"
)

// SalesHandler serves sales orders
type SalesHandler struct {
	BaseHandler
	sales *appsales.Service
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(service *appsales.Service) *SalesHandler {
	return &SalesHandler{sales: service}
}

// SalesOrderResponse is the JSON shape of a sales order
type SalesOrderResponse struct {
	ID             string                   `json:"id"`
	OrganizationID string                   `json:"organization_id"`
	BranchID       *string                  `json:"branch_id"`
	OrderNo        string                   `json:"order_no"`
	CustomerName   string                   `json:"customer_name"`
	Status         string                   `json:"status"`
	Items          []SalesOrderItemResponse `json:"items"`
	Total          string                   `json:"total"`
	CreatedBy      string                   `json:"created_by"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// SalesOrderItemResponse is one line of a sales order response
type SalesOrderItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

func salesOrderResponse(o *sales.Order) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, SalesOrderItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
			Subtotal:  item.Subtotal.String(),
		})
	}
	return SalesOrderResponse{
		ID:             o.ID.String(),
		OrganizationID: o.OrganizationID.String(),
		BranchID:       uuidPtr(o.BranchID),
		OrderNo:        o.OrderNo,
		CustomerName:   o.CustomerName,
		Status:         string(o.Status),
		Items:          items,
		Total:          o.Total.String(),
		CreatedBy:      o.CreatedBy.String(),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// List handles GET /sales
func (h *SalesHandler) List(c *gin.Context) {
	orgID, err := targetOrg(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	orders, err := h.sales.List(c.Request.Context(), tenantContext(c), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]SalesOrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, salesOrderResponse(&orders[i]))
	}
	h.Success(c, resp)
}

// Get handles GET /sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.sales.Get(c.Request.Context(), tenantContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, salesOrderResponse(order))
}

// Create handles POST /sales
func (h *SalesHandler) Create(c *gin.Context) {
	var input appsales.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid order data")
		return
	}

	target, err := targetFromQuery(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.sales.Create(c.Request.Context(), tenantContext(c), target, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, salesOrderResponse(order))
}

// Confirm handles POST /sales/:id/confirm
func (h *SalesHandler) Confirm(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.sales.Confirm(c.Request.Context(), tenantContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, salesOrderResponse(order))
}

// Cancel handles POST /sales/:id/cancel
func (h *SalesHandler) Cancel(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.sales.Cancel(c.Request.Context(), tenantContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, salesOrderResponse(order))
}

package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	apppurchase "github.com/stockpilot/backend/internal/application/purchase"
	"github.com/stockpilot/backend/internal/domain/purchase"
)

// PurchaseHandler serves purchase orders
type PurchaseHandler struct {
	BaseHandler
	purchases *apppurchase.Service
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(service *apppurchase.Service) *PurchaseHandler {
	return &PurchaseHandler{purchases: service}
}

// PurchaseOrderResponse is the JSON shape of a purchase order
type PurchaseOrderResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	BranchID       *string   `json:"branch_id"`
	OrderNo        string    `json:"order_no"`
	SupplierName   string    `json:"supplier_name"`
	Status         string    `json:"status"`
	Total          string    `json:"total"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func purchaseOrderResponse(o *purchase.Order) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:             o.ID.String(),
		OrganizationID: o.OrganizationID.String(),
		BranchID:       uuidPtr(o.BranchID),
		OrderNo:        o.OrderNo,
		SupplierName:   o.SupplierName,
		Status:         string(o.Status),
		Total:          o.Total.String(),
		CreatedBy:      o.CreatedBy.String(),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// List handles GET /purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	orgID, err := targetOrg(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	orders, err := h.purchases.List(c.Request.Context(), tenantContext(c), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, purchaseOrderResponse(&orders[i]))
	}
	h.Success(c, resp)
}

// Get handles GET /purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.purchases.Get(c.Request.Context(), tenantContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchaseOrderResponse(order))
}

// Create handles POST /purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var input apppurchase.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid order data")
		return
	}

	target, err := targetFromQuery(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.purchases.Create(c.Request.Context(), tenantContext(c), target, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchaseOrderResponse(order))
}

// MarkOrdered handles POST /purchases/:id/order
func (h *PurchaseHandler) MarkOrdered(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.purchases.MarkOrdered(c.Request.Context(), tenantContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchaseOrderResponse(order))
}

// MarkReceived handles POST /purchases/:id/receive
func (h *PurchaseHandler) MarkReceived(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.purchases.MarkReceived(c.Request.Context(), tenantContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchaseOrderResponse(order))
}

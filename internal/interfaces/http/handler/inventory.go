package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	appinventory "github.com/stockpilot/backend/internal/application/inventory"
	"github.com/stockpilot/backend/internal/domain/inventory"
)

// InventoryHandler serves products, warehouses and stock movements
type InventoryHandler struct {
	BaseHandler
	inventory *appinventory.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *appinventory.Service) *InventoryHandler {
	return &InventoryHandler{inventory: service}
}

// ProductResponse is the JSON shape of a product
type ProductResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	BranchID       *string   `json:"branch_id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Price          string    `json:"price"`
	Quantity       int64     `json:"quantity"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func productResponse(p *inventory.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID.String(),
		OrganizationID: p.OrganizationID.String(),
		BranchID:       uuidPtr(p.BranchID),
		SKU:            p.SKU,
		Name:           p.Name,
		Price:          p.Price.String(),
		Quantity:       p.Quantity,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// WarehouseResponse is the JSON shape of a warehouse
type WarehouseResponse struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	BranchID       *string `json:"branch_id"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	IsActive       bool    `json:"is_active"`
	Shared         bool    `json:"shared"`
}

func warehouseResponse(w *inventory.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:             w.ID.String(),
		OrganizationID: w.OrganizationID.String(),
		BranchID:       uuidPtr(w.BranchID),
		Code:           w.Code,
		Name:           w.Name,
		Address:        w.Address,
		IsActive:       w.IsActive,
		Shared:         w.Shared(),
	}
}

// MovementResponse is the JSON shape of a stock movement
type MovementResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	BranchID       *string   `json:"branch_id"`
	ProductID      string    `json:"product_id"`
	WarehouseID    string    `json:"warehouse_id"`
	ToWarehouseID  *string   `json:"to_warehouse_id"`
	Type           string    `json:"type"`
	Quantity       int64     `json:"quantity"`
	Reference      string    `json:"reference"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

func movementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID.String(),
		OrganizationID: m.OrganizationID.String(),
		BranchID:       uuidPtr(m.BranchID),
		ProductID:      m.ProductID.String(),
		WarehouseID:    m.WarehouseID.String(),
		ToWarehouseID:  uuidPtr(m.ToWarehouseID),
		Type:           string(m.Type),
		Quantity:       m.Quantity,
		Reference:      m.Reference,
		CreatedBy:      m.CreatedBy.String(),
		CreatedAt:      m.CreatedAt,
	}
}

// ListProducts handles GET /inventory/products
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	orgID, err := targetOrg(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	products, err := h.inventory.ListProducts(c.Request.Context(), tenantContext(c), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, productResponse(&products[i]))
	}
	h.Success(c, resp)
}

// GetProduct handles GET /inventory/products/:id
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	product, err := h.inventory.GetProduct(c.Request.Context(), tenantContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, productResponse(product))
}

// CreateProduct handles POST /inventory/products
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var input appinventory.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid product data")
		return
	}

	target, err := targetFromQuery(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	product, err := h.inventory.CreateProduct(c.Request.Context(), tenantContext(c), target, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, productResponse(product))
}

// UpdateProductInput contains the mutable product fields; absent fields
// are left unchanged
type UpdateProductInput struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	IsActive *bool            `json:"is_active"`
}

// UpdateProduct handles PUT /inventory/products/:id
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid product data")
		return
	}

	tc := tenantContext(c)
	product, err := h.inventory.GetProduct(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			h.BadRequest(c, "Price cannot be negative")
			return
		}
		product.Price = *input.Price
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.Touch()

	if err := h.inventory.UpdateProduct(c.Request.Context(), tc, product); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, productResponse(product))
}

// ListWarehouses handles GET /inventory/warehouses
func (h *InventoryHandler) ListWarehouses(c *gin.Context) {
	orgID, err := targetOrg(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	warehouses, err := h.inventory.ListWarehouses(c.Request.Context(), tenantContext(c), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		resp = append(resp, warehouseResponse(&warehouses[i]))
	}
	h.Success(c, resp)
}

// CreateWarehouseInput contains data for creating a warehouse
type CreateWarehouseInput struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// CreateWarehouse handles POST /inventory/warehouses
func (h *InventoryHandler) CreateWarehouse(c *gin.Context) {
	var input CreateWarehouseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid warehouse data")
		return
	}

	target, err := targetFromQuery(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	warehouse, err := h.inventory.CreateWarehouse(c.Request.Context(), tenantContext(c), target, input.Code, input.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouseResponse(warehouse))
}

// ListMovements handles GET /movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	movements, err := h.inventory.ListMovements(c.Request.Context(), tenantContext(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		resp = append(resp, movementResponse(&movements[i]))
	}
	h.Success(c, resp)
}

// RecordMovement handles POST /movements
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var input appinventory.CreateMovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid movement data")
		return
	}

	target, err := targetFromQuery(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	movement, err := h.inventory.RecordMovement(c.Request.Context(), tenantContext(c), target, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movementResponse(movement))
}

package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/stockpilot/backend/internal/application/identity"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// UserHandler serves profile administration
type UserHandler struct {
	BaseHandler
	users *appidentity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service *appidentity.UserService) *UserHandler {
	return &UserHandler{users: service}
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	orgID, err := targetOrg(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	profiles, err := h.users.List(c.Request.Context(), tenantContext(c), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		resp = append(resp, profileResponse(profile))
	}
	h.Success(c, resp)
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var input appidentity.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid user data")
		return
	}

	orgID, err := targetOrg(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	profile, err := h.users.Create(c.Request.Context(), tenantContext(c), orgID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, profileResponse(profile))
}

// SetPermissionInput contains one capability grant change
type SetPermissionInput struct {
	Capability string `json:"capability" binding:"required"`
	Granted    *bool  `json:"granted" binding:"required"`
}

// SetPermission handles PUT /users/:id/permissions
func (h *UserHandler) SetPermission(c *gin.Context) {
	userID, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var input SetPermissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid permission data")
		return
	}

	capability := identity.Capability(input.Capability)
	if !capability.IsKnown() {
		h.HandleError(c, shared.NewDomainError("INVALID_INPUT", "Unknown capability"))
		return
	}

	if err := h.users.SetPermission(c.Request.Context(), tenantContext(c), userID, capability, *input.Granted); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Deactivate handles POST /users/:id/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, err := parseID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.users.Deactivate(c.Request.Context(), tenantContext(c), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

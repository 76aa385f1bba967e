package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	appidentity "github.com/stockpilot/backend/internal/application/identity"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves sign-in and sign-out
type AuthHandler struct {
	BaseHandler
	auth *appidentity.AuthService
	gate middleware.GateConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *appidentity.AuthService, gate middleware.GateConfig) *AuthHandler {
	return &AuthHandler{auth: auth, gate: gate}
}

// ProfileResponse is the JSON shape of a signed-in profile
type ProfileResponse struct {
	UserID         string     `json:"user_id"`
	Email          string     `json:"email"`
	DisplayName    string     `json:"display_name"`
	Role           string     `json:"role"`
	OrganizationID *string    `json:"organization_id"`
	BranchID       *string    `json:"branch_id"`
	IsSuperAdmin   bool       `json:"is_super_admin"`
	Permissions    []string   `json:"permissions"`
	LastLoginAt    *time.Time `json:"last_login_at"`
}

func profileResponse(p *identity.Profile) ProfileResponse {
	resp := ProfileResponse{
		UserID:       p.UserID.String(),
		Email:        p.Email,
		DisplayName:  p.DisplayName,
		Role:         string(p.Role),
		IsSuperAdmin: p.Role.IsSuperAdmin(),
		LastLoginAt:  p.LastLoginAt,
	}
	if p.OrganizationID != nil {
		s := p.OrganizationID.String()
		resp.OrganizationID = &s
	}
	if p.BranchID != nil {
		s := p.BranchID.String()
		resp.BranchID = &s
	}
	for _, capability := range identity.AllCapabilities() {
		if p.Permissions.Has(capability) {
			resp.Permissions = append(resp.Permissions, string(capability))
		}
	}
	return resp
}

// Login verifies credentials and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var input appidentity.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid login request")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	maxAge := int(time.Until(result.Claims.ExpiresAt.Time).Seconds())
	middleware.SetSessionCookie(c, h.gate, result.Token, maxAge)
	h.Success(c, profileResponse(result.Profile))
}

// Logout revokes the presented session and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetSessionClaims(c)
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	middleware.ClearSessionCookie(c, h.gate)
	h.NoContent(c)
}

// Me returns the caller's resolved authorization context
func (h *AuthHandler) Me(c *gin.Context) {
	tc := tenantContext(c)
	if tc == nil {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}

	resp := gin.H{
		"user_id":        tc.UserID().String(),
		"role":           string(tc.Role()),
		"is_super_admin": tc.Unrestricted(),
		"permissions":    tc.Permissions(),
	}
	if orgID := tc.OrganizationID(); orgID != nil {
		resp["organization_id"] = orgID.String()
	}
	if branchID := tc.BranchID(); branchID != nil {
		resp["branch_id"] = branchID.String()
	}
	h.Success(c, resp)
}

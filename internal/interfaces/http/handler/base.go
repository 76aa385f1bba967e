// Package handler contains the gin HTTP handlers. Handlers read the
// tenant context the gate stored on the request and pass it to the
// application services; they never build or widen a context themselves.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/orgscope"
	"github.com/stockpilot/backend/internal/interfaces/http/dto"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// tenantContext returns the context the gate stored, which may be nil
func tenantContext(c *gin.Context) *identity.TenantContext {
	return middleware.GetTenantContext(c)
}

// targetOrg reads the optional org_id query parameter unrestricted
// callers use to address one organization
func targetOrg(c *gin.Context) (*uuid.UUID, error) {
	raw := c.Query("org_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "org_id must be a UUID")
	}
	return &id, nil
}

// targetFromQuery reads the optional org_id/branch_id query parameters
// into an explicit write target
func targetFromQuery(c *gin.Context) (*orgscope.Target, error) {
	orgID, err := targetOrg(c)
	if err != nil {
		return nil, err
	}
	if orgID == nil {
		return nil, nil
	}

	target := &orgscope.Target{OrganizationID: *orgID}
	if raw := c.Query("branch_id"); raw != "" {
		branchID, err := uuid.Parse(raw)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "branch_id must be a UUID")
		}
		target.BranchID = &branchID
	}
	return target, nil
}

// uuidPtr renders a nullable id for a JSON response
func uuidPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// parseID reads the id path parameter
func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, shared.NewDomainError("INVALID_INPUT", "id must be a UUID")
	}
	return id, nil
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeBadRequest, message, middleware.GetRequestID(c)))
}

// HandleError converts domain and infrastructure errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	if errors.Is(err, orgscope.ErrExplicitTargetRequired) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInvalidInput, "An explicit organization target is required", requestID))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}

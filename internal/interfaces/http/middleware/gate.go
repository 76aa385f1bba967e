package middleware

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/infrastructure/auth"
	logging "github.com/stockpilot/backend/internal/infrastructure/logger"
	"github.com/stockpilot/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Gin context keys set by the gate
const (
	TenantContextKey = "tenant_context"
	SessionClaimsKey = "session_claims"
)

// Decision is the outcome of evaluating a request against the gate rules
type Decision int

const (
	// DecisionAllow lets the request through
	DecisionAllow Decision = iota
	// DecisionRedirectLogin sends an unauthenticated caller to the login page
	DecisionRedirectLogin
	// DecisionRedirectLanding sends a signed-in caller away from the login page
	DecisionRedirectLanding
	// DecisionRewriteNotFound answers 404; denial is indistinguishable from absence
	DecisionRewriteNotFound
)

// ContextResolver builds the tenant context for a principal. A (nil, nil)
// result means the principal has no usable context; an error means the
// store could not answer.
type ContextResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*identity.TenantContext, error)
}

// GateConfig holds configuration for the authorization gate
type GateConfig struct {
	LoginPath   string
	LandingPath string
	// PublicSegments are route segments reachable by any signed-in
	// principal regardless of capabilities. The empty string is the root.
	PublicSegments []string
	// APIPrefix is stripped before deriving the route segment, so
	// /api/v1/inventory and /inventory gate identically
	APIPrefix string

	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieSameSite http.SameSite

	Logger *zap.Logger
}

// DefaultGateConfig returns default gate configuration
func DefaultGateConfig() GateConfig {
	return GateConfig{
		LoginPath:      "/login",
		LandingPath:    "/dashboard",
		PublicSegments: []string{"", "welcome", "logout", "me"},
		APIPrefix:      "/api/v1",
		CookieName:     "sp_session",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		Logger:         zap.NewNop(),
	}
}

// staticSuffixes are file extensions served without gating
var staticSuffixes = []string{".ico", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js", ".map", ".woff", ".woff2"}

// IsStaticAsset reports whether the path is a static asset the gate skips
func IsStaticAsset(requestPath string) bool {
	if strings.HasPrefix(requestPath, "/_next/static/") || strings.HasPrefix(requestPath, "/_next/image") {
		return true
	}
	if requestPath == "/favicon.ico" {
		return true
	}
	ext := strings.ToLower(path.Ext(requestPath))
	for _, suffix := range staticSuffixes {
		if ext == suffix {
			return true
		}
	}
	return false
}

// RouteSegment derives the gating segment from a request path: the first
// path element, with the API prefix stripped first
func RouteSegment(requestPath, apiPrefix string) string {
	if apiPrefix != "" && strings.HasPrefix(requestPath, apiPrefix) {
		requestPath = strings.TrimPrefix(requestPath, apiPrefix)
	}
	requestPath = strings.TrimPrefix(requestPath, "/")
	if i := strings.IndexByte(requestPath, '/'); i >= 0 {
		requestPath = requestPath[:i]
	}
	return requestPath
}

// Evaluate applies the gate rules to one request. The rules are ordered;
// the first match wins:
//
//  1. no usable context, not the login page: go sign in
//  2. usable context on the login page: go to the landing page
//  3. landing or public segment: allow
//  4. unrestricted context: allow
//  5. granted capability for the segment: allow
//  6. otherwise: not found
//
// Evaluate is pure; it is safe to call repeatedly for the same request
// and always returns the same decision.
func Evaluate(cfg GateConfig, requestPath string, tc *identity.TenantContext) Decision {
	onLogin := requestPath == cfg.LoginPath ||
		(cfg.APIPrefix != "" && requestPath == cfg.APIPrefix+cfg.LoginPath)

	if tc == nil {
		if onLogin {
			return DecisionAllow
		}
		return DecisionRedirectLogin
	}

	if onLogin {
		return DecisionRedirectLanding
	}

	segment := RouteSegment(requestPath, cfg.APIPrefix)

	// Rule 2 redirects here, so the landing segment must stay reachable
	// for every signed-in principal regardless of capabilities.
	if segment == RouteSegment(cfg.LandingPath, "") {
		return DecisionAllow
	}

	for _, public := range cfg.PublicSegments {
		if segment == public {
			return DecisionAllow
		}
	}

	if tc.Unrestricted() {
		return DecisionAllow
	}

	if tc.HasCapability(identity.Capability(segment)) {
		return DecisionAllow
	}
	return DecisionRewriteNotFound
}

// Gate returns the authorization middleware. For every non-static request
// it validates the session cookie, rebuilds the tenant context from the
// profile store and applies the gate rules. Cookie mutations (rotation,
// clearing) are written before the exit branch is taken, so they reach
// the client on allows, redirects and rewrites alike.
func Gate(sessions *auth.SessionService, revoker auth.SessionRevoker, resolver ContextResolver, cfg GateConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if IsStaticAsset(c.Request.URL.Path) {
			c.Next()
			return
		}

		claims, ok := validSessionClaims(c, sessions, revoker, cfg, logger)
		if !ok {
			// Revocation store unreachable; surfaced already
			return
		}

		var tc *identity.TenantContext
		if claims != nil {
			userID, err := uuid.Parse(claims.UserID)
			if err == nil {
				tc, err = resolver.Resolve(c.Request.Context(), userID)
				if err != nil {
					logger.Error("Tenant context resolution failed",
						zap.String("user_id", claims.UserID),
						zap.Error(err))
					failClosed(c)
					return
				}
			}
		}

		if tc != nil && claims != nil && sessions.ShouldRotate(claims) {
			rotateCookie(c, sessions, cfg, tc.UserID(), logger)
		}

		switch Evaluate(cfg, c.Request.URL.Path, tc) {
		case DecisionAllow:
			if tc != nil {
				c.Set(TenantContextKey, tc)
				enrichRequestLogger(c, tc)
			}
			if claims != nil {
				c.Set(SessionClaimsKey, claims)
			}
			c.Next()

		case DecisionRedirectLogin:
			c.Redirect(http.StatusFound, cfg.LoginPath)
			c.Abort()

		case DecisionRedirectLanding:
			c.Redirect(http.StatusFound, cfg.LandingPath)
			c.Abort()

		case DecisionRewriteNotFound:
			c.AbortWithStatusJSON(http.StatusNotFound,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Not found", GetRequestID(c)))
		}
	}
}

// enrichRequestLogger stamps the request logger and context with the
// resolved tenant identifiers so downstream log lines carry them
func enrichRequestLogger(c *gin.Context, tc *identity.TenantContext) {
	ctx := c.Request.Context()
	log := logging.GetGinLogger(c)

	ctx, log = logging.WithUserID(ctx, log, tc.UserID().String())
	if orgID := tc.OrganizationID(); orgID != nil {
		ctx, log = logging.WithOrganizationID(ctx, log, orgID.String())
	}
	if branchID := tc.BranchID(); branchID != nil {
		ctx, log = logging.WithBranchID(ctx, log, branchID.String())
	}
	log = logging.WithTraceContext(ctx, log)

	c.Request = c.Request.WithContext(ctx)
	c.Set("logger", log)
}

// validSessionClaims extracts and validates the session cookie. It
// returns (nil, true) for anonymous or invalid sessions, (claims, true)
// for valid ones, and (nil, false) after responding 503 when the
// revocation store cannot answer.
func validSessionClaims(c *gin.Context, sessions *auth.SessionService, revoker auth.SessionRevoker, cfg GateConfig, logger *zap.Logger) (*auth.SessionClaims, bool) {
	token, err := c.Cookie(cfg.CookieName)
	if err != nil || token == "" {
		return nil, true
	}

	claims, err := sessions.Validate(token)
	if err != nil {
		// Stale or tampered cookie; drop it so the client stops sending it
		clearCookie(c, cfg)
		return nil, true
	}

	revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		logger.Error("Revocation check failed", zap.Error(err))
		failClosed(c)
		return nil, false
	}
	if !revoked {
		revoked, err = revoker.IsUserRevoked(c.Request.Context(), claims.UserID, claims.IssuedAtTime())
		if err != nil {
			logger.Error("User revocation check failed", zap.Error(err))
			failClosed(c)
			return nil, false
		}
	}
	if revoked {
		clearCookie(c, cfg)
		return nil, true
	}
	return claims, true
}

// failClosed answers 503. A store outage is a transient failure, never a
// denial: no redirect, no 404.
func failClosed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "Service temporarily unavailable", GetRequestID(c)))
}

func rotateCookie(c *gin.Context, sessions *auth.SessionService, cfg GateConfig, userID uuid.UUID, logger *zap.Logger) {
	token, _, err := sessions.Issue(userID)
	if err != nil {
		logger.Error("Session rotation failed", zap.Error(err))
		return
	}
	setCookie(c, cfg, token, int(sessions.Lifetime().Seconds()))
}

func clearCookie(c *gin.Context, cfg GateConfig) {
	ClearSessionCookie(c, cfg)
}

func setCookie(c *gin.Context, cfg GateConfig, value string, maxAge int) {
	SetSessionCookie(c, cfg, value, maxAge)
}

// SetSessionCookie writes the session cookie with the configured
// attributes. The cookie is always HTTP-only.
func SetSessionCookie(c *gin.Context, cfg GateConfig, value string, maxAge int) {
	c.SetSameSite(cfg.CookieSameSite)
	c.SetCookie(cfg.CookieName, value, maxAge, cfg.CookiePath, cfg.CookieDomain, cfg.CookieSecure, true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context, cfg GateConfig) {
	SetSessionCookie(c, cfg, "", -1)
}

// GetTenantContext returns the tenant context stored by the gate, or nil
func GetTenantContext(c *gin.Context) *identity.TenantContext {
	if v, exists := c.Get(TenantContextKey); exists {
		if tc, ok := v.(*identity.TenantContext); ok {
			return tc
		}
	}
	return nil
}

// GetSessionClaims returns the session claims stored by the gate, or nil
func GetSessionClaims(c *gin.Context) *auth.SessionClaims {
	if v, exists := c.Get(SessionClaimsKey); exists {
		if claims, ok := v.(*auth.SessionClaims); ok {
			return claims
		}
	}
	return nil
}

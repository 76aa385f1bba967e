package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/infrastructure/auth"
	"github.com/stockpilot/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scopedTestContext(t *testing.T, permissions identity.PermissionSet) *identity.TenantContext {
	t.Helper()

	orgID := uuid.New()
	tc, err := identity.NewTenantContext(&identity.Profile{
		UserID:         uuid.New(),
		Role:           identity.RoleCashier,
		OrganizationID: &orgID,
		Permissions:    permissions,
		Status:         identity.ProfileStatusActive,
	})
	require.NoError(t, err)
	return tc
}

func unrestrictedTestContext(t *testing.T) *identity.TenantContext {
	t.Helper()

	admin, err := identity.NewSuperAdminProfile("root@example.com", "password-123")
	require.NoError(t, err)
	tc, err := identity.NewTenantContext(admin)
	require.NoError(t, err)
	return tc
}

func TestEvaluate(t *testing.T) {
	cfg := DefaultGateConfig()

	t.Run("anonymous request is sent to login", func(t *testing.T) {
		assert.Equal(t, DecisionRedirectLogin, Evaluate(cfg, "/dashboard", nil))
		assert.Equal(t, DecisionRedirectLogin, Evaluate(cfg, "/", nil))
		assert.Equal(t, DecisionRedirectLogin, Evaluate(cfg, "/welcome", nil))
	})

	t.Run("anonymous request may reach the login page", func(t *testing.T) {
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/login", nil))
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/api/v1/login", nil))
	})

	t.Run("signed-in request on the login page is sent to the landing page", func(t *testing.T) {
		tc := scopedTestContext(t, identity.PermissionSet{})
		assert.Equal(t, DecisionRedirectLanding, Evaluate(cfg, "/login", tc))
	})

	t.Run("public segments pass without capabilities", func(t *testing.T) {
		tc := scopedTestContext(t, identity.PermissionSet{})
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/", tc))
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/welcome", tc))
	})

	t.Run("landing page stays reachable without any capability", func(t *testing.T) {
		tc := scopedTestContext(t, identity.PermissionSet{})
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/dashboard", tc))
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/api/v1/dashboard", tc))
	})

	t.Run("granted capability allows the segment", func(t *testing.T) {
		tc := scopedTestContext(t, identity.PermissionSet{identity.CapabilitySales: true})
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/sales", tc))
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/sales/orders/123", tc))
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/api/v1/sales", tc))
	})

	t.Run("missing capability answers not found, not forbidden", func(t *testing.T) {
		tc := scopedTestContext(t, identity.PermissionSet{identity.CapabilitySales: true})
		assert.Equal(t, DecisionRewriteNotFound, Evaluate(cfg, "/inventory", tc))
		assert.Equal(t, DecisionRewriteNotFound, Evaluate(cfg, "/users", tc))
	})

	t.Run("capability false is a denial same as capability absent", func(t *testing.T) {
		tc := scopedTestContext(t, identity.PermissionSet{identity.CapabilityInventory: false})
		assert.Equal(t, DecisionRewriteNotFound, Evaluate(cfg, "/inventory", tc))
	})

	t.Run("unknown segment is denied for scoped callers", func(t *testing.T) {
		tc := scopedTestContext(t, identity.FullPermissionSet())
		assert.Equal(t, DecisionRewriteNotFound, Evaluate(cfg, "/billing", tc))
	})

	t.Run("unrestricted context passes every segment even with empty permissions", func(t *testing.T) {
		tc := unrestrictedTestContext(t)
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/inventory", tc))
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/users", tc))
		assert.Equal(t, DecisionAllow, Evaluate(cfg, "/billing", tc))
	})

	t.Run("evaluation is repeatable", func(t *testing.T) {
		tc := scopedTestContext(t, identity.PermissionSet{identity.CapabilitySales: true})
		first := Evaluate(cfg, "/sales", tc)
		second := Evaluate(cfg, "/sales", tc)
		assert.Equal(t, first, second)
	})
}

func TestRouteSegment(t *testing.T) {
	assert.Equal(t, "inventory", RouteSegment("/inventory", "/api/v1"))
	assert.Equal(t, "inventory", RouteSegment("/inventory/products/42", "/api/v1"))
	assert.Equal(t, "inventory", RouteSegment("/api/v1/inventory/products", "/api/v1"))
	assert.Equal(t, "", RouteSegment("/", "/api/v1"))
	assert.Equal(t, "", RouteSegment("/api/v1", "/api/v1"))
}

func TestIsStaticAsset(t *testing.T) {
	assert.True(t, IsStaticAsset("/_next/static/chunks/main.js"))
	assert.True(t, IsStaticAsset("/_next/image?url=%2Flogo.png"))
	assert.True(t, IsStaticAsset("/favicon.ico"))
	assert.True(t, IsStaticAsset("/logo.svg"))
	assert.False(t, IsStaticAsset("/inventory"))
	assert.False(t, IsStaticAsset("/login"))
}

// stubResolver resolves every principal to a fixed context or error
type stubResolver struct {
	tc  *identity.TenantContext
	err error
}

func (s *stubResolver) Resolve(_ context.Context, _ uuid.UUID) (*identity.TenantContext, error) {
	return s.tc, s.err
}

func newGateRouter(t *testing.T, sessions *auth.SessionService, resolver ContextResolver) (*gin.Engine, GateConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := DefaultGateConfig()
	router := gin.New()
	router.Use(RequestID())
	router.Use(Gate(sessions, auth.NewInMemorySessionRevoker(), resolver, cfg))
	router.GET("/*any", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router, cfg
}

func newGateSessions(t *testing.T) *auth.SessionService {
	t.Helper()
	return auth.NewSessionService(config.SessionConfig{
		Secret:   "gate-test-secret",
		Lifetime: time.Hour,
		Issuer:   "stockpilot-test",
	})
}

// issueAgedToken signs claims issued in the past so rotation triggers
func issueAgedToken(t *testing.T, userID uuid.UUID, age time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := &auth.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    "stockpilot-test",
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour - age)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-age)),
		},
		UserID: userID.String(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("gate-test-secret"))
	require.NoError(t, err)
	return signed
}

func TestGate(t *testing.T) {
	t.Run("anonymous page request redirects to login", func(t *testing.T) {
		sessions := newGateSessions(t)
		router, cfg := newGateRouter(t, sessions, &stubResolver{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, cfg.LoginPath, w.Header().Get("Location"))
	})

	t.Run("session cookie with no profile behind it redirects to login", func(t *testing.T) {
		sessions := newGateSessions(t)
		router, cfg := newGateRouter(t, sessions, &stubResolver{tc: nil})

		token, _, err := sessions.Issue(uuid.New())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, cfg.LoginPath, w.Header().Get("Location"))
	})

	t.Run("tampered cookie is cleared on the redirect response", func(t *testing.T) {
		sessions := newGateSessions(t)
		router, cfg := newGateRouter(t, sessions, &stubResolver{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "garbage"})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cfg.CookieName, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("granted capability request passes and carries the context", func(t *testing.T) {
		sessions := newGateSessions(t)
		tc := scopedTestContext(t, identity.PermissionSet{identity.CapabilitySales: true})
		router, cfg := newGateRouter(t, sessions, &stubResolver{tc: tc})

		token, _, err := sessions.Issue(tc.UserID())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/sales", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("denied capability request answers 404", func(t *testing.T) {
		sessions := newGateSessions(t)
		tc := scopedTestContext(t, identity.PermissionSet{identity.CapabilitySales: true})
		router, cfg := newGateRouter(t, sessions, &stubResolver{tc: tc})

		token, _, err := sessions.Issue(tc.UserID())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("resolver outage answers 503, not a redirect or 404", func(t *testing.T) {
		sessions := newGateSessions(t)
		router, cfg := newGateRouter(t, sessions, &stubResolver{err: errors.New("store down")})

		token, _, err := sessions.Issue(uuid.New())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/sales", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("aged session is rotated even on a denied request", func(t *testing.T) {
		sessions := newGateSessions(t)
		tc := scopedTestContext(t, identity.PermissionSet{})
		router, cfg := newGateRouter(t, sessions, &stubResolver{tc: tc})

		token := issueAgedToken(t, tc.UserID(), 45*time.Minute)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cfg.CookieName, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
	})

	t.Run("static assets bypass the gate", func(t *testing.T) {
		sessions := newGateSessions(t)
		router, _ := newGateRouter(t, sessions, &stubResolver{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/favicon.ico", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("revoked session is treated as anonymous", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		sessions := newGateSessions(t)
		tc := scopedTestContext(t, identity.FullPermissionSet())
		revoker := auth.NewInMemorySessionRevoker()

		cfg := DefaultGateConfig()
		router := gin.New()
		router.Use(Gate(sessions, revoker, &stubResolver{tc: tc}, cfg))
		router.GET("/*any", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		token, claims, err := sessions.Issue(tc.UserID())
		require.NoError(t, err)
		require.NoError(t, revoker.Revoke(context.Background(), claims.ID, time.Hour))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/sales", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, cfg.LoginPath, w.Header().Get("Location"))
	})
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appidentity "github.com/stockpilot/backend/internal/application/identity"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/auth"
	"github.com/stockpilot/backend/internal/infrastructure/config"
	"github.com/stockpilot/backend/internal/interfaces/http/dto"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProfiles struct {
	byEmail map[string]*identity.Profile
	byID    map[uuid.UUID]*identity.Profile
}

func newStubProfiles(profiles ...*identity.Profile) *stubProfiles {
	s := &stubProfiles{
		byEmail: make(map[string]*identity.Profile),
		byID:    make(map[uuid.UUID]*identity.Profile),
	}
	for _, p := range profiles {
		s.byEmail[p.Email] = p
		s.byID[p.UserID] = p
	}
	return s
}

func (s *stubProfiles) FindByUserID(_ context.Context, userID uuid.UUID) (*identity.Profile, error) {
	if p, ok := s.byID[userID]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubProfiles) FindByEmail(_ context.Context, email string) (*identity.Profile, error) {
	if p, ok := s.byEmail[strings.ToLower(email)]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubProfiles) ListByOrganization(_ context.Context, _ uuid.UUID) ([]*identity.Profile, error) {
	return nil, nil
}

func (s *stubProfiles) Create(_ context.Context, _ *identity.Profile) error { return nil }
func (s *stubProfiles) Update(_ context.Context, _ *identity.Profile) error { return nil }

func newAuthTestRouter(t *testing.T, profiles identity.ProfileRepository) (*gin.Engine, middleware.GateConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := auth.NewSessionService(config.SessionConfig{
		Secret:   "auth-handler-test-secret",
		Lifetime: time.Hour,
		Issuer:   "stockpilot-test",
	})
	service := appidentity.NewAuthService(profiles, sessions, auth.NewInMemorySessionRevoker(), zap.NewNop())
	gate := middleware.DefaultGateConfig()
	h := NewAuthHandler(service, gate)

	engine := gin.New()
	engine.POST("/api/v1/login", h.Login)
	engine.POST("/api/v1/logout", h.Logout)
	engine.GET("/api/v1/me", h.Me)
	return engine, gate
}

func TestLoginSetsSessionCookie(t *testing.T) {
	orgID := uuid.New()
	profile, err := identity.NewProfile("cashier@example.com", "s3cret-pass", identity.RoleCashier, orgID, nil)
	require.NoError(t, err)

	engine, gate := newAuthTestRouter(t, newStubProfiles(profile))

	body, _ := json.Marshal(gin.H{"email": "cashier@example.com", "password": "s3cret-pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == gate.CookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, profile.UserID.String(), data["user_id"])
	assert.Equal(t, "cashier", data["role"])
	assert.Equal(t, false, data["is_super_admin"])
}

func TestLoginWrongPassword(t *testing.T) {
	orgID := uuid.New()
	profile, err := identity.NewProfile("admin@example.com", "correct-pass", identity.RoleAdmin, orgID, nil)
	require.NoError(t, err)

	engine, gate := newAuthTestRouter(t, newStubProfiles(profile))

	body, _ := json.Marshal(gin.H{"email": "admin@example.com", "password": "wrong-pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	for _, cookie := range rec.Result().Cookies() {
		assert.NotEqual(t, gate.CookieName, cookie.Name, "failed login must not set a session cookie")
	}
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	engine, _ := newAuthTestRouter(t, newStubProfiles())

	body, _ := json.Marshal(gin.H{"email": "nobody@example.com", "password": "whatever1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid email or password", resp.Error.Message)
}

func TestMeReturnsTenantContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orgID := uuid.New()
	branchID := uuid.New()
	profile, err := identity.NewProfile("manager@example.com", "s3cret-pass", identity.RoleManager, orgID, &branchID)
	require.NoError(t, err)
	tc, err := identity.NewTenantContext(profile)
	require.NoError(t, err)

	h := NewAuthHandler(nil, middleware.DefaultGateConfig())
	engine := gin.New()
	engine.GET("/api/v1/me", func(c *gin.Context) {
		c.Set(middleware.TenantContextKey, tc)
		h.Me(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, profile.UserID.String(), data["user_id"])
	assert.Equal(t, orgID.String(), data["organization_id"])
	assert.Equal(t, branchID.String(), data["branch_id"])
	assert.Equal(t, false, data["is_super_admin"])
}

func TestMeWithoutContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(nil, middleware.DefaultGateConfig())
	engine := gin.New()
	engine.GET("/api/v1/me", h.Me)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package router

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
	appinventory "github.com/stockpilot/backend/internal/application/inventory"
	appnotification "github.com/stockpilot/backend/internal/application/notification"
	apppurchase "github.com/stockpilot/backend/internal/application/purchase"
	appsales "github.com/stockpilot/backend/internal/application/sales"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/auth"
	"github.com/stockpilot/backend/internal/infrastructure/config"
	"github.com/stockpilot/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProfiles struct {
	byEmail map[string]*identity.Profile
	byID    map[uuid.UUID]*identity.Profile
}

func newFakeProfiles(profiles ...*identity.Profile) *fakeProfiles {
	s := &fakeProfiles{
		byEmail: make(map[string]*identity.Profile),
		byID:    make(map[uuid.UUID]*identity.Profile),
	}
	for _, p := range profiles {
		s.byEmail[p.Email] = p
		s.byID[p.UserID] = p
	}
	return s
}

func (s *fakeProfiles) FindByUserID(_ context.Context, userID uuid.UUID) (*identity.Profile, error) {
	if p, ok := s.byID[userID]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (s *fakeProfiles) FindByEmail(_ context.Context, email string) (*identity.Profile, error) {
	if p, ok := s.byEmail[strings.ToLower(email)]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (s *fakeProfiles) ListByOrganization(_ context.Context, _ uuid.UUID) ([]*identity.Profile, error) {
	return nil, nil
}

func (s *fakeProfiles) Create(_ context.Context, _ *identity.Profile) error { return nil }
func (s *fakeProfiles) Update(_ context.Context, _ *identity.Profile) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "stockpilot", Env: "test", Port: "0"},
		Session: config.SessionConfig{
			Secret:   "router-test-secret",
			Lifetime: time.Hour,
			Issuer:   "stockpilot-test",
		},
		Cookie: config.CookieConfig{Name: "sp_session", Path: "/", SameSite: "lax"},
		HTTP:   config.HTTPConfig{LoginPath: "/login", LandingPath: "/dashboard"},
	}
}

// newTestRouter builds the full engine with in-memory auth pieces. The
// domain repositories are left nil: the scenarios below never reach a
// handler that would touch them.
func newTestRouter(t *testing.T, profiles identity.ProfileRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	log := zap.NewNop()
	sessions := auth.NewSessionService(cfg.Session)
	revoker := auth.NewInMemorySessionRevoker()
	resolver := appidentity.NewContextResolver(profiles, log)
	gate := GateConfigFromConfig(cfg, log)

	authService := appidentity.NewAuthService(profiles, sessions, revoker, log)
	inventoryService := appinventory.NewService(nil, nil, nil, log)
	salesService := appsales.NewService(nil, nil, nil, log)

	return Setup(cfg, log, sessions, revoker, resolver, gate, Handlers{
		Auth:          handler.NewAuthHandler(authService, gate),
		Dashboard:     handler.NewDashboardHandler(inventoryService, salesService, appnotification.NewService(nil, log)),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		Sales:         handler.NewSalesHandler(salesService),
		Purchase:      handler.NewPurchaseHandler(apppurchase.NewService(nil, log)),
		Users:         handler.NewUserHandler(appidentity.NewUserService(profiles, log)),
		Notifications: handler.NewNotificationHandler(appnotification.NewService(nil, log)),
	})
}

func TestHealthzNeedsNoSession(t *testing.T) {
	engine := newTestRouter(t, newFakeProfiles())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnonymousRequestRedirectsToLogin(t *testing.T) {
	engine := newTestRouter(t, newFakeProfiles())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLoginThenDeniedSegmentIsNotFound(t *testing.T) {
	orgID := uuid.New()
	// A cashier has dashboard and sales only; users must 404
	profile, err := identity.NewProfile("cashier@example.com", "s3cret-pass", identity.RoleCashier, orgID, nil)
	require.NoError(t, err)

	engine := newTestRouter(t, newFakeProfiles(profile))

	body, _ := json.Marshal(gin.H{"email": "cashier@example.com", "password": "s3cret-pass"})
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	loginRec := httptest.NewRecorder()
	engine.ServeHTTP(loginRec, loginReq)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var session *http.Cookie
	for _, cookie := range loginRec.Result().Cookies() {
		if cookie.Name == "sp_session" {
			session = cookie
		}
	}
	require.NotNil(t, session)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignedInLoginPathRedirectsToLanding(t *testing.T) {
	orgID := uuid.New()
	profile, err := identity.NewProfile("admin@example.com", "s3cret-pass", identity.RoleAdmin, orgID, nil)
	require.NoError(t, err)

	engine := newTestRouter(t, newFakeProfiles(profile))

	body, _ := json.Marshal(gin.H{"email": "admin@example.com", "password": "s3cret-pass"})
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	loginRec := httptest.NewRecorder()
	engine.ServeHTTP(loginRec, loginReq)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var session *http.Cookie
	for _, cookie := range loginRec.Result().Cookies() {
		if cookie.Name == "sp_session" {
			session = cookie
		}
	}
	require.NotNil(t, session)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestMeIsReachableForAnySignedInUser(t *testing.T) {
	orgID := uuid.New()
	profile, err := identity.NewProfile("cashier@example.com", "s3cret-pass", identity.RoleCashier, orgID, nil)
	require.NoError(t, err)

	engine := newTestRouter(t, newFakeProfiles(profile))

	body, _ := json.Marshal(gin.H{"email": "cashier@example.com", "password": "s3cret-pass"})
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	loginRec := httptest.NewRecorder()
	engine.ServeHTTP(loginRec, loginReq)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var session *http.Cookie
	for _, cookie := range loginRec.Result().Cookies() {
		if cookie.Name == "sp_session" {
			session = cookie
		}
	}
	require.NotNil(t, session)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteStrictMode, parseSameSite("strict"))
	assert.Equal(t, http.SameSiteNoneMode, parseSameSite("none"))
	assert.Equal(t, http.SameSiteLaxMode, parseSameSite("lax"))
	assert.Equal(t, http.SameSiteLaxMode, parseSameSite(""))
}

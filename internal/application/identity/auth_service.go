package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// LoginInput contains login request data
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult contains the issued session and the signed-in profile
type LoginResult struct {
	Token   string
	Claims  *auth.SessionClaims
	Profile *identity.Profile
}

// AuthService handles sign-in and sign-out
type AuthService struct {
	profiles identity.ProfileRepository
	sessions *auth.SessionService
	revoker  auth.SessionRevoker
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	profiles identity.ProfileRepository,
	sessions *auth.SessionService,
	revoker auth.SessionRevoker,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		profiles: profiles,
		sessions: sessions,
		revoker:  revoker,
		logger:   logger,
	}
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password report the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	profile, err := s.profiles.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Login attempt for unknown email")
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !profile.IsActive() {
		s.logger.Warn("Login attempt for deactivated profile",
			zap.String("user_id", profile.UserID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !profile.VerifyPassword(input.Password) {
		s.logger.Info("Login attempt with wrong password",
			zap.String("user_id", profile.UserID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	token, claims, err := s.sessions.Issue(profile.UserID)
	if err != nil {
		return nil, err
	}

	profile.RecordLogin(time.Now())
	if err := s.profiles.Update(ctx, profile); err != nil {
		s.logger.Error("Failed to record login time", zap.Error(err))
	}

	s.logger.Info("Login succeeded",
		zap.String("user_id", profile.UserID.String()),
		zap.String("role", string(profile.Role)))

	return &LoginResult{
		Token:   token,
		Claims:  claims,
		Profile: profile,
	}, nil
}

// Logout revokes the presented session token
func (s *AuthService) Logout(ctx context.Context, claims *auth.SessionClaims) error {
	if claims == nil {
		return nil
	}

	ttl := s.sessions.Lifetime()
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}

	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}

	s.logger.Info("Session revoked", zap.String("user_id", claims.UserID))
	return nil
}

// LogoutEverywhere revokes every session of a principal
func (s *AuthService) LogoutEverywhere(ctx context.Context, userID uuid.UUID) error {
	return s.revoker.RevokeUser(ctx, userID.String(), s.sessions.Lifetime())
}

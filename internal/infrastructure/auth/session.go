// Package auth implements cookie session tokens and their revocation.
//
// A session token is a signed JWT carrying only the principal id. It
// deliberately carries no role, organization or permission claims: the
// authorization context is rebuilt from the profile store on every request,
// so a permission change takes effect immediately instead of at token
// expiry.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid session token")
	ErrExpiredToken     = errors.New("session token has expired")
	ErrTokenNotYetValid = errors.New("session token is not yet valid")
	ErrTokenRevoked     = errors.New("session token has been revoked")
)

// SessionClaims are the claims carried by a session token
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// IssuedAtTime returns the issue time, zero if absent
func (c *SessionClaims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// SessionService issues and validates session tokens
type SessionService struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
}

// NewSessionService creates a session service from configuration
func NewSessionService(cfg config.SessionConfig) *SessionService {
	return &SessionService{
		secret:   []byte(cfg.Secret),
		lifetime: cfg.Lifetime,
		issuer:   cfg.Issuer,
	}
}

// Lifetime returns the configured token lifetime
func (s *SessionService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue creates a signed session token for the given principal
func (s *SessionService) Issue(userID uuid.UUID) (string, *SessionClaims, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Validate parses and verifies a session token
func (s *SessionService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ShouldRotate reports whether the token has passed half of its lifetime.
// The gate reissues the cookie at that point so active sessions slide
// forward instead of expiring mid-use.
func (s *SessionService) ShouldRotate(claims *SessionClaims) bool {
	issued := claims.IssuedAtTime()
	if issued.IsZero() {
		return true
	}
	return time.Since(issued) > s.lifetime/2
}

package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// ProfileStatus represents the status of a profile
type ProfileStatus string

const (
	ProfileStatusActive      ProfileStatus = "active"
	ProfileStatusDeactivated ProfileStatus = "deactivated"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Profile is the persisted identity record keyed by principal id. It is
// read on every request to build the tenant context and mutated only by
// administrative flows.
type Profile struct {
	UserID         uuid.UUID
	Email          string
	DisplayName    string
	PasswordHash   string
	Role           Role
	OrganizationID *uuid.UUID // nil only for super-admin
	BranchID       *uuid.UUID // nil means organization-wide, not branch-scoped
	Permissions    PermissionSet
	Status         ProfileStatus
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProfile creates a profile for a regular (organization-affiliated) user
func NewProfile(email, password string, role Role, organizationID uuid.UUID, branchID *uuid.UUID) (*Profile, error) {
	if role.IsSuperAdmin() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Super-admin profiles must be created without an organization")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &Profile{
		UserID:         uuid.New(),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:   hash,
		Role:           role,
		OrganizationID: &organizationID,
		BranchID:       branchID,
		Permissions:    DefaultPermissionsForRole(role),
		Status:         ProfileStatusActive,
	}, nil
}

// NewSuperAdminProfile creates a super-admin profile. It carries no
// organization or branch affiliation.
func NewSuperAdminProfile(email, password string) (*Profile, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &Profile{
		UserID:       uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         RoleSuperAdmin,
		Permissions:  FullPermissionSet(),
		Status:       ProfileStatusActive,
	}, nil
}

// IsActive reports whether the profile may sign in
func (p *Profile) IsActive() bool {
	return p.Status == ProfileStatusActive
}

// VerifyPassword checks the given plaintext password against the stored hash
func (p *Profile) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last successful login time
func (p *Profile) RecordLogin(at time.Time) {
	p.LastLoginAt = &at
}

// SetPermission grants or revokes a single capability. Unknown capability
// names are rejected to keep the set closed.
func (p *Profile) SetPermission(c Capability, granted bool) error {
	if !c.IsKnown() {
		return shared.NewDomainError("UNKNOWN_CAPABILITY", "Unknown capability name")
	}
	if p.Permissions == nil {
		p.Permissions = PermissionSet{}
	}
	p.Permissions[c] = granted
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}

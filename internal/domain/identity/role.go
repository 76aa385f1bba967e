package identity

// Role represents the functional role assigned to a profile
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleCashier    Role = "cashier"
	// RoleSuperAdmin is the distinguished operator role. A super-admin
	// profile carries no organization or branch affiliation and may target
	// any tenant explicitly.
	RoleSuperAdmin Role = "superadmin"
)

// IsValid reports whether the role is one of the known role values
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier, RoleSuperAdmin:
		return true
	}
	return false
}

// IsSuperAdmin reports whether the role is the super-admin marker
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

package identity

// Capability is a named permission flag gating access to one functional
// area. Capabilities are keyed by the route segment that serves the area,
// so the authorization gate can derive the required capability directly
// from the request path.
type Capability string

const (
	CapabilityDashboard     Capability = "dashboard"
	CapabilityInventory     Capability = "inventory"
	CapabilitySales         Capability = "sales"
	CapabilityPurchases     Capability = "purchases"
	CapabilityMovements     Capability = "movements"
	CapabilityUsers         Capability = "users"
	CapabilityNotifications Capability = "notifications"
	CapabilitySettings      Capability = "settings"
)

// AllCapabilities returns the closed set of known capabilities. The set is
// enumerated rather than open-ended: unknown capability names always
// resolve to denied.
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityDashboard,
		CapabilityInventory,
		CapabilitySales,
		CapabilityPurchases,
		CapabilityMovements,
		CapabilityUsers,
		CapabilityNotifications,
		CapabilitySettings,
	}
}

// IsKnown reports whether the capability is part of the enumerated set
func (c Capability) IsKnown() bool {
	for _, known := range AllCapabilities() {
		if c == known {
			return true
		}
	}
	return false
}

// PermissionSet maps capabilities to grant flags. A missing key is
// equivalent to an explicit false.
type PermissionSet map[Capability]bool

// Has reports whether the capability is granted. Unknown capability names
// return false regardless of map content.
func (p PermissionSet) Has(c Capability) bool {
	if !c.IsKnown() {
		return false
	}
	return p[c]
}

// Clone returns an independent copy of the permission set
func (p PermissionSet) Clone() PermissionSet {
	out := make(PermissionSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// FullPermissionSet returns a set granting every known capability
func FullPermissionSet() PermissionSet {
	set := make(PermissionSet, len(AllCapabilities()))
	for _, c := range AllCapabilities() {
		set[c] = true
	}
	return set
}

// DefaultPermissionsForRole returns the capability grants a newly created
// profile receives for its role. Administrative flows may widen or narrow
// the set afterwards.
func DefaultPermissionsForRole(role Role) PermissionSet {
	switch role {
	case RoleSuperAdmin, RoleAdmin:
		return FullPermissionSet()
	case RoleManager:
		set := FullPermissionSet()
		set[CapabilityUsers] = false
		set[CapabilitySettings] = false
		return set
	case RoleCashier:
		return PermissionSet{
			CapabilityDashboard: true,
			CapabilitySales:     true,
		}
	default:
		return PermissionSet{}
	}
}

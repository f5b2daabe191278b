package domain

// Role is the coarse-grained permission tier attached to every account.
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleSupport Role = "SUPPORT"
	RoleUser    Role = "USER"
)

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleSupport, RoleUser:
		return true
	}
	return false
}

// Actor is the authenticated identity making a request. It is derived from
// the bearer token per request and threaded explicitly into every service
// call; nothing in the core reads it from ambient state.
type Actor struct {
	ID   int64
	Role Role
}

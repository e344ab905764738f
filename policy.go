package auth

// Operation names a protected action evaluated against the access policy
type Operation string

const (
	// OpUserRegister creates a new identity record
	OpUserRegister Operation = "user.register"
	// OpUserSelf reads the caller's own profile
	OpUserSelf Operation = "user.self"
)

// accessPolicy maps each protected operation to its allowed role set. The
// table is immutable after startup; evaluation happens at a single choke
// point before the operation body runs.
var accessPolicy = map[Operation][]UserRole{
	OpUserRegister: {RoleAdmin},
	OpUserSelf:     {RoleAdmin, RoleInstructor, RoleStudent},
}

// Allowed reports whether the role may invoke the operation
func Allowed(op Operation, role UserRole) bool {
	roles, ok := accessPolicy[op]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize evaluates the access policy for the operation and role
func Authorize(op Operation, role UserRole) error {
	if !Allowed(op, role) {
		return ErrAccessDenied
	}
	return nil
}

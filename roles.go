package auth

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// IsValidStatus checks if the status is one of the predefined lifecycle statuses
func IsValidStatus(s UserStatus) bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusDisabled:
		return true
	default:
		return false
	}
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleInstructor, RoleStudent}
}

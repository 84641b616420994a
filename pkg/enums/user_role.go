package enums

import "fmt"

// UserRole represents the two account roles the marketplace supports.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleStore    UserRole = "store"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleStore,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

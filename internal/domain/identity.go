package domain

// Identity is the acting user as resolved by the upstream gateway. The core
// trusts it for CreatedBy fields and branch scoping; it performs no
// authentication itself.
type Identity struct {
	UserID   string
	Role     Role
	BranchID string
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin has full access including mapping and chart changes
	RoleAdmin Role = "admin"

	// RoleOperator can post, adjust and settle, but cannot change configuration
	RoleOperator Role = "operator"

	// RoleViewer can only view resources, no mutations
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanMutate checks if the role can perform money-moving operations
func (r Role) CanMutate() bool {
	return r == RoleAdmin || r == RoleOperator
}

// CanConfigure checks if the role can change the chart or mappings
func (r Role) CanConfigure() bool {
	return r == RoleAdmin
}

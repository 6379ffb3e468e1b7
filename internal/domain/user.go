package domain

// Role represents a user's role in the warehouse organisation
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleKeeper     Role = "KEEPER"
	RoleAccountant Role = "ACCOUNTANT"
	RoleEmployee   Role = "EMPLOYEE"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleKeeper, RoleAccountant, RoleEmployee:
		return true
	default:
		return false
	}
}

// User is an actor performing operations against the core.
// A KEEPER is scoped to exactly one warehouse via AssignedWarehouseID.
type User struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Role                Role   `json:"role"`
	AssignedWarehouseID string `json:"assignedWarehouseId,omitempty"`
}

// NewUser creates a user, validating the role
func NewUser(id, name string, role Role, assignedWarehouseID string) (*User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &User{
		ID:                  id,
		Name:                name,
		Role:                role,
		AssignedWarehouseID: assignedWarehouseID,
	}, nil
}

// IsAssignedTo reports whether the user's warehouse scope matches warehouseID
func (u *User) IsAssignedTo(warehouseID string) bool {
	return u.AssignedWarehouseID != "" && u.AssignedWarehouseID == warehouseID
}

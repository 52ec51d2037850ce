package models

type Role string

const (
	RoleDiner      Role = "diner"
	RoleAdmin      Role = "admin"
	RoleFranchisee Role = "franchisee"
)

func (r Role) IsValid() bool {
	return r == RoleDiner || r == RoleAdmin || r == RoleFranchisee
}

// UserRole is a single role assignment. Object carries the franchise name on
// input (resolved to ObjectID when the role is persisted); only franchisee
// roles reference an object.
type UserRole struct {
	Role     Role   `json:"role"`
	Object   string `json:"object,omitempty"`
	ObjectID int64  `json:"objectId,omitempty"`
}

type User struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"-"`
	Roles    []UserRole `json:"roles"`
}

// HasRole reports whether roles contains an assignment of the given kind,
// regardless of what it references.
func HasRole(roles []UserRole, kind Role) bool {
	for _, r := range roles {
		if r.Role == kind {
			return true
		}
	}
	return false
}

// HasRoleFor reports whether roles contains an assignment of the given kind
// scoped to objectID, e.g. franchisee of this franchise rather than any.
func HasRoleFor(roles []UserRole, kind Role, objectID int64) bool {
	for _, r := range roles {
		if r.Role == kind && r.ObjectID == objectID {
			return true
		}
	}
	return false
}

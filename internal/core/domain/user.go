package domain

// UserRole determines which operations a caller may perform.
type UserRole string

const (
	RoleDonor   UserRole = "donor"
	RoleCharity UserRole = "charity"
	RoleAuditor UserRole = "auditor"
	RoleAdmin   UserRole = "admin"
)

// Caller is the identity every state-machine entry point receives. It is
// supplied by the transport layer (JWT claims), never re-derived internally.
type Caller struct {
	UserID string
	Role   UserRole
}

// User is a reference entity: donations and review metadata point at users,
// but credential handling lives outside this service.
type User struct {
	UserID    string   `json:"userID"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      UserRole `json:"role"`
	IsActive  bool     `json:"isActive"`
	AuditFields
}

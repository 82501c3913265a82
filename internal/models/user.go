package models

// User represents a row in the users table.
type User struct {
	UserID    string `db:"user_id"`
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Role      string `db:"role"`
	IsActive  bool   `db:"is_active"`
	AuditFields
}

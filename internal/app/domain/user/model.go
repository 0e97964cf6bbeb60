package user

import "time"

// Role identifies what a user may do within their organization.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAgent   Role = "agent"
	RoleCitizen Role = "citizen"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCitizen:
		return true
	}
	return false
}

// User is an account belonging to an organization. Citizens submit
// complaints; agents and admins process them.
type User struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	DepartmentID   string    `json:"department_id,omitempty"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

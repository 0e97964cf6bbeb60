package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
)

// CreateUserParams carries the fields for provisioning a user.
type CreateUserParams struct {
	OrganizationID string `json:"organization_id,omitempty"`
	DepartmentID   string `json:"department_id,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role,omitempty"`
}

// CreateUser provisions an account. Unlike Register, the caller chooses
// the role.
func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (user.User, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/users", params)
	if err != nil {
		return user.User{}, err
	}
	var u user.User
	if err := decode(resp, &u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// ListUsers returns users, optionally filtered by organization and
// department.
func (c *Client) ListUsers(ctx context.Context, organizationID, departmentID string) ([]user.User, error) {
	q := url.Values{}
	if organizationID != "" {
		q.Set("organization_id", organizationID)
	}
	if departmentID != "" {
		q.Set("department_id", departmentID)
	}
	path := "/api/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var users []user.User
	if err := decode(resp, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns one user by ID.
func (c *Client) GetUser(ctx context.Context, id string) (user.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/users/"+id, nil)
	if err != nil {
		return user.User{}, err
	}
	var u user.User
	if err := decode(resp, &u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// UpdateUserParams carries the optional update fields. Nil fields are
// left unchanged.
type UpdateUserParams struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Role         *string `json:"role,omitempty"`
	Password     *string `json:"password,omitempty"`
}

// UpdateUser modifies a user account.
func (c *Client) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (user.User, error) {
	resp, err := c.do(ctx, http.MethodPut, "/api/users/"+id, params)
	if err != nil {
		return user.User{}, err
	}
	var u user.User
	if err := decode(resp, &u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/users/"+id, nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

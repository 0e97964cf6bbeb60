package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/department"
)

// DepartmentParams carries department fields for create and update.
type DepartmentParams struct {
	OrganizationID string `json:"organization_id,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
}

// CreateDepartment registers a department under an organization.
func (c *Client) CreateDepartment(ctx context.Context, params DepartmentParams) (department.Department, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/departments", params)
	if err != nil {
		return department.Department{}, err
	}
	var dept department.Department
	if err := decode(resp, &dept); err != nil {
		return department.Department{}, err
	}
	return dept, nil
}

// ListDepartments returns departments, optionally filtered by
// organization. Citizens are not allowed to browse department structure;
// that answer is surfaced as a permission error rather than the server's
// raw message.
func (c *Client) ListDepartments(ctx context.Context, organizationID string) ([]department.Department, error) {
	path := "/api/departments"
	if organizationID != "" {
		path += "?organization_id=" + url.QueryEscape(organizationID)
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return nil, errors.New("you do not have permission to view departments")
	}

	var depts []department.Department
	if err := decode(resp, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

// GetDepartment returns one department by ID.
func (c *Client) GetDepartment(ctx context.Context, id string) (department.Department, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/departments/"+id, nil)
	if err != nil {
		return department.Department{}, err
	}
	var dept department.Department
	if err := decode(resp, &dept); err != nil {
		return department.Department{}, err
	}
	return dept, nil
}

// UpdateDepartmentParams carries the optional update fields. Nil fields
// are left unchanged.
type UpdateDepartmentParams struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateDepartment modifies a department.
func (c *Client) UpdateDepartment(ctx context.Context, id string, params UpdateDepartmentParams) (department.Department, error) {
	resp, err := c.do(ctx, http.MethodPut, "/api/departments/"+id, params)
	if err != nil {
		return department.Department{}, err
	}
	var dept department.Department
	if err := decode(resp, &dept); err != nil {
		return department.Department{}, err
	}
	return dept, nil
}

// DeleteDepartment removes a department.
func (c *Client) DeleteDepartment(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/departments/"+id, nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

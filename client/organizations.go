package client

import (
	"context"
	"net/http"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/organization"
)

// OrganizationParams carries organization fields for create and update.
type OrganizationParams struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
}

// CreateOrganization registers a new organization.
func (c *Client) CreateOrganization(ctx context.Context, params OrganizationParams) (organization.Organization, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/organizations", params)
	if err != nil {
		return organization.Organization{}, err
	}
	var org organization.Organization
	if err := decode(resp, &org); err != nil {
		return organization.Organization{}, err
	}
	return org, nil
}

// ListOrganizations returns every organization.
func (c *Client) ListOrganizations(ctx context.Context) ([]organization.Organization, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/organizations", nil)
	if err != nil {
		return nil, err
	}
	var orgs []organization.Organization
	if err := decode(resp, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// GetOrganization returns one organization by ID.
func (c *Client) GetOrganization(ctx context.Context, id string) (organization.Organization, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/organizations/"+id, nil)
	if err != nil {
		return organization.Organization{}, err
	}
	var org organization.Organization
	if err := decode(resp, &org); err != nil {
		return organization.Organization{}, err
	}
	return org, nil
}

// UpdateOrganization replaces the mutable fields of an organization.
func (c *Client) UpdateOrganization(ctx context.Context, id string, params OrganizationParams) (organization.Organization, error) {
	resp, err := c.do(ctx, http.MethodPut, "/api/organizations/"+id, params)
	if err != nil {
		return organization.Organization{}, err
	}
	var org organization.Organization
	if err := decode(resp, &org); err != nil {
		return organization.Organization{}, err
	}
	return org, nil
}

// DeleteOrganization removes an organization.
func (c *Client) DeleteOrganization(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/organizations/"+id, nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

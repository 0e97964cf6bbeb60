package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/complaint"
)

// --- Complaint types --------------------------------------------------------

// ComplaintTypeParams carries complaint-type fields for create.
type ComplaintTypeParams struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
}

// CreateComplaintType registers a complaint category.
func (c *Client) CreateComplaintType(ctx context.Context, params ComplaintTypeParams) (complaint.Type, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/complaints/types", params)
	if err != nil {
		return complaint.Type{}, err
	}
	var ct complaint.Type
	if err := decode(resp, &ct); err != nil {
		return complaint.Type{}, err
	}
	return ct, nil
}

// ListComplaintTypes returns complaint categories, optionally filtered
// by organization.
func (c *Client) ListComplaintTypes(ctx context.Context, organizationID string) ([]complaint.Type, error) {
	path := "/api/complaints/types"
	if organizationID != "" {
		path += "?organization_id=" + url.QueryEscape(organizationID)
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var types []complaint.Type
	if err := decode(resp, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// DeleteComplaintType removes a complaint category.
func (c *Client) DeleteComplaintType(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/complaints/types/"+id, nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// --- Complaints -------------------------------------------------------------

// ComplaintParams carries the fields for filing a complaint.
type ComplaintParams struct {
	OrganizationID string `json:"organization_id"`
	DepartmentID   string `json:"department_id,omitempty"`
	TypeID         string `json:"type_id,omitempty"`
	Subject        string `json:"subject"`
	Description    string `json:"description,omitempty"`
	Location       string `json:"location,omitempty"`
	Priority       string `json:"priority,omitempty"`
}

// Attachment is a file uploaded alongside a complaint.
type Attachment struct {
	Filename string
	Reader   io.Reader
}

// CreateComplaint files a complaint without attachments using a plain
// JSON body.
func (c *Client) CreateComplaint(ctx context.Context, params ComplaintParams) (complaint.Complaint, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/complaints", params)
	if err != nil {
		return complaint.Complaint{}, err
	}
	var created complaint.Complaint
	if err := decode(resp, &created); err != nil {
		return complaint.Complaint{}, err
	}
	return created, nil
}

// CreateComplaintWithAttachments files a complaint as a multipart form
// carrying the attachment files.
func (c *Client) CreateComplaintWithAttachments(ctx context.Context, params ComplaintParams, attachments []Attachment) (complaint.Complaint, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"organization_id": params.OrganizationID,
		"department_id":   params.DepartmentID,
		"type_id":         params.TypeID,
		"subject":         params.Subject,
		"description":     params.Description,
		"location":        params.Location,
		"priority":        params.Priority,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := form.WriteField(name, value); err != nil {
			return complaint.Complaint{}, fmt.Errorf("write form field: %w", err)
		}
	}
	for _, att := range attachments {
		part, err := form.CreateFormFile("attachments", att.Filename)
		if err != nil {
			return complaint.Complaint{}, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, att.Reader); err != nil {
			return complaint.Complaint{}, fmt.Errorf("copy attachment: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return complaint.Complaint{}, fmt.Errorf("finalise form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/complaints", &buf)
	if err != nil {
		return complaint.Complaint{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.ensureBearer(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return complaint.Complaint{}, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.teardownSession()
	}

	var created complaint.Complaint
	if err := decode(resp, &created); err != nil {
		return complaint.Complaint{}, err
	}
	return created, nil
}

// ComplaintFilter narrows complaint listings. Zero values mean "any".
type ComplaintFilter struct {
	OrganizationID string
	DepartmentID   string
	Status         string
	Page           int
	Limit          int
}

// ListComplaints returns complaints matching the filter, newest first.
func (c *Client) ListComplaints(ctx context.Context, filter ComplaintFilter) ([]complaint.Complaint, error) {
	q := url.Values{}
	if filter.OrganizationID != "" {
		q.Set("organization_id", filter.OrganizationID)
	}
	if filter.DepartmentID != "" {
		q.Set("department_id", filter.DepartmentID)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	path := "/api/complaints"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var complaints []complaint.Complaint
	if err := decode(resp, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

// GetComplaint returns one complaint by ID.
func (c *Client) GetComplaint(ctx context.Context, id string) (complaint.Complaint, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/complaints/"+id, nil)
	if err != nil {
		return complaint.Complaint{}, err
	}
	var found complaint.Complaint
	if err := decode(resp, &found); err != nil {
		return complaint.Complaint{}, err
	}
	return found, nil
}

// UpdateComplaintParams carries the optional update fields. Nil fields
// are left unchanged.
type UpdateComplaintParams struct {
	DepartmentID *string `json:"department_id,omitempty"`
	TypeID       *string `json:"type_id,omitempty"`
	Subject      *string `json:"subject,omitempty"`
	Description  *string `json:"description,omitempty"`
	Location     *string `json:"location,omitempty"`
	Status       *string `json:"status,omitempty"`
	Priority     *string `json:"priority,omitempty"`
}

// UpdateComplaint modifies a complaint.
func (c *Client) UpdateComplaint(ctx context.Context, id string, params UpdateComplaintParams) (complaint.Complaint, error) {
	resp, err := c.do(ctx, http.MethodPut, "/api/complaints/"+id, params)
	if err != nil {
		return complaint.Complaint{}, err
	}
	var updated complaint.Complaint
	if err := decode(resp, &updated); err != nil {
		return complaint.Complaint{}, err
	}
	return updated, nil
}

// DeleteComplaint removes a complaint.
func (c *Client) DeleteComplaint(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/complaints/"+id, nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

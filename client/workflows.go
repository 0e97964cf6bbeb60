package client

import (
	"context"
	"net/http"
	"time"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/workflow"
)

// WorkflowParams carries the fields for starting a workflow.
type WorkflowParams struct {
	ComplaintID  string          `json:"complaint_id"`
	DepartmentID string          `json:"department_id,omitempty"`
	AssigneeID   string          `json:"assignee_id,omitempty"`
	Steps        []workflow.Step `json:"steps,omitempty"`
	DueAt        time.Time       `json:"due_at,omitempty"`
}

// CreateWorkflow starts a workflow for a complaint.
func (c *Client) CreateWorkflow(ctx context.Context, params WorkflowParams) (workflow.Workflow, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/workflows", params)
	if err != nil {
		return workflow.Workflow{}, err
	}
	var wf workflow.Workflow
	if err := decode(resp, &wf); err != nil {
		return workflow.Workflow{}, err
	}
	return wf, nil
}

// ListWorkflows returns every workflow.
func (c *Client) ListWorkflows(ctx context.Context) ([]workflow.Workflow, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/workflows", nil)
	if err != nil {
		return nil, err
	}
	var wfs []workflow.Workflow
	if err := decode(resp, &wfs); err != nil {
		return nil, err
	}
	return wfs, nil
}

// GetWorkflow returns one workflow by ID.
func (c *Client) GetWorkflow(ctx context.Context, id string) (workflow.Workflow, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/workflows/"+id, nil)
	if err != nil {
		return workflow.Workflow{}, err
	}
	var wf workflow.Workflow
	if err := decode(resp, &wf); err != nil {
		return workflow.Workflow{}, err
	}
	return wf, nil
}

// WorkflowForComplaint returns the workflow attached to a complaint, or
// nil when the complaint has none yet. Absence is a normal state here,
// not an error.
func (c *Client) WorkflowForComplaint(ctx context.Context, complaintID string) (*workflow.Workflow, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/complaints/"+complaintID+"/workflow", nil)
	if err != nil {
		return nil, err
	}

	var wf workflow.Workflow
	if err := decode(resp, &wf); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &wf, nil
}

// UpdateWorkflowParams carries the optional update fields. Nil fields
// are left unchanged.
type UpdateWorkflowParams struct {
	DepartmentID *string    `json:"department_id,omitempty"`
	AssigneeID   *string    `json:"assignee_id,omitempty"`
	Status       *string    `json:"status,omitempty"`
	DueAt        *time.Time `json:"due_at,omitempty"`
}

// UpdateWorkflow modifies a workflow.
func (c *Client) UpdateWorkflow(ctx context.Context, id string, params UpdateWorkflowParams) (workflow.Workflow, error) {
	resp, err := c.do(ctx, http.MethodPut, "/api/workflows/"+id, params)
	if err != nil {
		return workflow.Workflow{}, err
	}
	var wf workflow.Workflow
	if err := decode(resp, &wf); err != nil {
		return workflow.Workflow{}, err
	}
	return wf, nil
}

// AdvanceWorkflow completes the current step and moves to the next one.
func (c *Client) AdvanceWorkflow(ctx context.Context, id string) (workflow.Workflow, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/workflows/"+id+"/advance", nil)
	if err != nil {
		return workflow.Workflow{}, err
	}
	var wf workflow.Workflow
	if err := decode(resp, &wf); err != nil {
		return workflow.Workflow{}, err
	}
	return wf, nil
}

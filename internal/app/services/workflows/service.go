// Package workflows manages the assignment workflow attached to each
// complaint, including due-date escalation.
package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/complaint"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/workflow"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// Notifier delivers a notification to a user.
type Notifier interface {
	Notify(ctx context.Context, userID, kind, message string) error
}

// Service manages complaint workflows.
type Service struct {
	store      storage.WorkflowStore
	complaints storage.ComplaintStore
	notifier   Notifier
	log        *logger.Logger
}

// New constructs a workflow service. notifier may be nil.
func New(store storage.WorkflowStore, complaints storage.ComplaintStore, notifier Notifier, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("workflows")
	}
	return &Service{
		store:      store,
		complaints: complaints,
		notifier:   notifier,
		log:        log,
	}
}

// CreateParams carries the fields for starting a workflow.
type CreateParams struct {
	ComplaintID  string
	DepartmentID string
	AssigneeID   string
	Steps        []workflow.Step
	DueAt        time.Time
}

// Create starts a workflow for a complaint and moves the complaint to
// in_progress. A complaint can carry at most one workflow.
func (s *Service) Create(ctx context.Context, p CreateParams) (workflow.Workflow, error) {
	p.ComplaintID = strings.TrimSpace(p.ComplaintID)
	if p.ComplaintID == "" {
		return workflow.Workflow{}, fmt.Errorf("complaint_id is required")
	}

	c, err := s.complaints.GetComplaint(ctx, p.ComplaintID)
	if err != nil {
		return workflow.Workflow{}, fmt.Errorf("complaint validation failed: %w", err)
	}

	if p.DueAt.IsZero() {
		p.DueAt = time.Now().UTC().Add(72 * time.Hour)
	}

	wf := workflow.Workflow{
		ComplaintID:  p.ComplaintID,
		DepartmentID: strings.TrimSpace(p.DepartmentID),
		AssigneeID:   strings.TrimSpace(p.AssigneeID),
		Status:       workflow.StatusActive,
		Steps:        p.Steps,
		DueAt:        p.DueAt,
	}
	wf, err = s.store.CreateWorkflow(ctx, wf)
	if err != nil {
		return workflow.Workflow{}, err
	}

	if c.Status == complaint.StatusOpen {
		c.Status = complaint.StatusInProgress
		if _, err := s.complaints.UpdateComplaint(ctx, c); err != nil {
			s.log.WithError(err).Warn("failed to move complaint to in_progress")
		}
	}

	s.log.WithField("workflow_id", wf.ID).
		WithField("complaint_id", wf.ComplaintID).
		Info("workflow created")

	if wf.AssigneeID != "" {
		s.notify(ctx, wf.AssigneeID, "workflow_assigned",
			fmt.Sprintf("Complaint %q has been assigned to you.", c.Subject))
	}
	return wf, nil
}

// UpdateParams carries the optional fields for updating a workflow. Nil
// fields are left unchanged.
type UpdateParams struct {
	DepartmentID *string
	AssigneeID   *string
	Status       *workflow.Status
	DueAt        *time.Time
}

// Update modifies mutable fields on a workflow. Completing the workflow
// resolves the underlying complaint.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (workflow.Workflow, error) {
	wf, err := s.store.GetWorkflow(ctx, id)
	if err != nil {
		return workflow.Workflow{}, err
	}
	previousAssignee := wf.AssigneeID

	if p.DepartmentID != nil {
		wf.DepartmentID = strings.TrimSpace(*p.DepartmentID)
	}
	if p.AssigneeID != nil {
		wf.AssigneeID = strings.TrimSpace(*p.AssigneeID)
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return workflow.Workflow{}, fmt.Errorf("invalid status %q", *p.Status)
		}
		wf.Status = *p.Status
	}
	if p.DueAt != nil {
		wf.DueAt = *p.DueAt
	}

	wf, err = s.store.UpdateWorkflow(ctx, wf)
	if err != nil {
		return workflow.Workflow{}, err
	}
	s.log.WithField("workflow_id", wf.ID).Info("workflow updated")

	if wf.AssigneeID != "" && wf.AssigneeID != previousAssignee {
		s.notify(ctx, wf.AssigneeID, "workflow_assigned", "A complaint has been assigned to you.")
	}
	if wf.Status == workflow.StatusCompleted {
		s.resolveComplaint(ctx, wf.ComplaintID)
	}
	return wf, nil
}

// AdvanceStep marks the current step completed and moves to the next
// one. Completing the last step completes the workflow.
func (s *Service) AdvanceStep(ctx context.Context, id string) (workflow.Workflow, error) {
	wf, err := s.store.GetWorkflow(ctx, id)
	if err != nil {
		return workflow.Workflow{}, err
	}
	if wf.Status == workflow.StatusCompleted {
		return workflow.Workflow{}, fmt.Errorf("workflow %s is already completed", id)
	}
	if wf.CurrentStep >= len(wf.Steps) {
		return workflow.Workflow{}, fmt.Errorf("workflow %s has no outstanding steps", id)
	}

	now := time.Now().UTC()
	wf.Steps[wf.CurrentStep].CompletedAt = &now
	wf.CurrentStep++
	if wf.CurrentStep >= len(wf.Steps) {
		wf.Status = workflow.StatusCompleted
	}

	wf, err = s.store.UpdateWorkflow(ctx, wf)
	if err != nil {
		return workflow.Workflow{}, err
	}
	s.log.WithField("workflow_id", wf.ID).
		WithField("current_step", wf.CurrentStep).
		Info("workflow step advanced")

	if wf.Status == workflow.StatusCompleted {
		s.resolveComplaint(ctx, wf.ComplaintID)
	}
	return wf, nil
}

// Get returns one workflow by ID.
func (s *Service) Get(ctx context.Context, id string) (workflow.Workflow, error) {
	return s.store.GetWorkflow(ctx, id)
}

// GetByComplaint returns the workflow attached to a complaint.
func (s *Service) GetByComplaint(ctx context.Context, complaintID string) (workflow.Workflow, error) {
	return s.store.GetWorkflowByComplaint(ctx, complaintID)
}

// List returns all workflows.
func (s *Service) List(ctx context.Context) ([]workflow.Workflow, error) {
	return s.store.ListWorkflows(ctx)
}

// EscalateOverdue marks every workflow past its due date as escalated
// and notifies the assignee. It returns the number escalated.
func (s *Service) EscalateOverdue(ctx context.Context) (int, error) {
	overdue, err := s.store.ListOverdueWorkflows(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	escalated := 0
	for _, wf := range overdue {
		wf.Status = workflow.StatusEscalated
		if _, err := s.store.UpdateWorkflow(ctx, wf); err != nil {
			s.log.WithError(err).
				WithField("workflow_id", wf.ID).
				Warn("failed to escalate workflow")
			continue
		}
		escalated++
		if wf.AssigneeID != "" {
			s.notify(ctx, wf.AssigneeID, "workflow_escalated",
				"A complaint assigned to you is overdue and has been escalated.")
		}
	}

	if escalated > 0 {
		s.log.WithField("count", escalated).Info("overdue workflows escalated")
	}
	return escalated, nil
}

func (s *Service) resolveComplaint(ctx context.Context, complaintID string) {
	c, err := s.complaints.GetComplaint(ctx, complaintID)
	if err != nil {
		s.log.WithError(err).Warn("failed to load complaint for resolution")
		return
	}
	if c.Status == complaint.StatusResolved || c.Status == complaint.StatusClosed {
		return
	}
	c.Status = complaint.StatusResolved
	if _, err := s.complaints.UpdateComplaint(ctx, c); err != nil {
		s.log.WithError(err).Warn("failed to resolve complaint")
		return
	}
	s.notify(ctx, c.SubmitterID, "complaint_status_changed",
		fmt.Sprintf("Your complaint %q has been resolved.", c.Subject))
}

func (s *Service) notify(ctx context.Context, userID, kind, message string) {
	if s.notifier == nil || userID == "" {
		return
	}
	if err := s.notifier.Notify(ctx, userID, kind, message); err != nil {
		s.log.WithError(err).Warn("notification delivery failed")
	}
}

// Package storage defines the persistence interfaces for the complaint
// platform and a shared in-memory implementation.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/auth"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/complaint"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/department"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/feedback"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/notification"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/organization"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/workflow"
)

// ErrNotFound is returned by every store when the requested record does
// not exist. Handlers map it to HTTP 404.
var ErrNotFound = errors.New("record not found")

// OrganizationStore persists organizations.
type OrganizationStore interface {
	CreateOrganization(ctx context.Context, org organization.Organization) (organization.Organization, error)
	UpdateOrganization(ctx context.Context, org organization.Organization) (organization.Organization, error)
	GetOrganization(ctx context.Context, id string) (organization.Organization, error)
	ListOrganizations(ctx context.Context) ([]organization.Organization, error)
	DeleteOrganization(ctx context.Context, id string) error
}

// DepartmentStore persists departments.
type DepartmentStore interface {
	CreateDepartment(ctx context.Context, dept department.Department) (department.Department, error)
	UpdateDepartment(ctx context.Context, dept department.Department) (department.Department, error)
	GetDepartment(ctx context.Context, id string) (department.Department, error)
	ListDepartments(ctx context.Context, organizationID string) ([]department.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListUsers(ctx context.Context, organizationID, departmentID string) ([]user.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ComplaintTypeStore persists complaint categories.
type ComplaintTypeStore interface {
	CreateComplaintType(ctx context.Context, ct complaint.Type) (complaint.Type, error)
	UpdateComplaintType(ctx context.Context, ct complaint.Type) (complaint.Type, error)
	GetComplaintType(ctx context.Context, id string) (complaint.Type, error)
	ListComplaintTypes(ctx context.Context, organizationID string) ([]complaint.Type, error)
	DeleteComplaintType(ctx context.Context, id string) error
}

// ComplaintFilter narrows complaint listings. Zero values mean "any".
type ComplaintFilter struct {
	OrganizationID string
	DepartmentID   string
	Status         complaint.Status
	Page           int
	Limit          int
}

// ComplaintStore persists complaints.
type ComplaintStore interface {
	CreateComplaint(ctx context.Context, c complaint.Complaint) (complaint.Complaint, error)
	UpdateComplaint(ctx context.Context, c complaint.Complaint) (complaint.Complaint, error)
	GetComplaint(ctx context.Context, id string) (complaint.Complaint, error)
	ListComplaints(ctx context.Context, filter ComplaintFilter) ([]complaint.Complaint, error)
	DeleteComplaint(ctx context.Context, id string) error
}

// WorkflowStore persists complaint workflows.
type WorkflowStore interface {
	CreateWorkflow(ctx context.Context, wf workflow.Workflow) (workflow.Workflow, error)
	UpdateWorkflow(ctx context.Context, wf workflow.Workflow) (workflow.Workflow, error)
	GetWorkflow(ctx context.Context, id string) (workflow.Workflow, error)
	GetWorkflowByComplaint(ctx context.Context, complaintID string) (workflow.Workflow, error)
	ListWorkflows(ctx context.Context) ([]workflow.Workflow, error)
	ListOverdueWorkflows(ctx context.Context, asOf time.Time) ([]workflow.Workflow, error)
}

// NotificationStore persists notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error)
	UpdateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error)
	GetNotification(ctx context.Context, id string) (notification.Notification, error)
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error)
}

// FeedbackStore persists complaint feedback.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error)
	GetFeedback(ctx context.Context, id string) (feedback.Feedback, error)
	GetFeedbackByComplaint(ctx context.Context, complaintID string) (feedback.Feedback, error)
	ListFeedback(ctx context.Context, organizationID string, rating int) ([]feedback.Feedback, error)
}

// SessionStore persists issued-token sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s auth.Session) (auth.Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (auth.Session, error)
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context, asOf time.Time) error
}

package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
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

// Memory is a thread-safe in-memory persistence layer implementing the
// storage interfaces defined in this package. It is intended for tests and
// prototyping and deliberately keeps the implementation simple.
type Memory struct {
	mu            sync.RWMutex
	nextID        int64
	organizations map[string]organization.Organization
	departments   map[string]department.Department
	users         map[string]user.User
	types         map[string]complaint.Type
	complaints    map[string]complaint.Complaint
	workflows     map[string]workflow.Workflow
	notifications map[string]notification.Notification
	feedback      map[string]feedback.Feedback
	sessions      map[string]auth.Session // keyed by token hash
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextID:        1,
		organizations: make(map[string]organization.Organization),
		departments:   make(map[string]department.Department),
		users:         make(map[string]user.User),
		types:         make(map[string]complaint.Type),
		complaints:    make(map[string]complaint.Complaint),
		workflows:     make(map[string]workflow.Workflow),
		notifications: make(map[string]notification.Notification),
		feedback:      make(map[string]feedback.Feedback),
		sessions:      make(map[string]auth.Session),
	}
}

func (m *Memory) nextIDLocked() string {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("%d", id)
}

// OrganizationStore implementation --------------------------------------------

func (m *Memory) CreateOrganization(_ context.Context, org organization.Organization) (organization.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if org.ID == "" {
		org.ID = m.nextIDLocked()
	} else if _, exists := m.organizations[org.ID]; exists {
		return organization.Organization{}, fmt.Errorf("organization %s already exists", org.ID)
	}

	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now

	m.organizations[org.ID] = org
	return org, nil
}

func (m *Memory) UpdateOrganization(_ context.Context, org organization.Organization) (organization.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.organizations[org.ID]
	if !ok {
		return organization.Organization{}, fmt.Errorf("organization %s: %w", org.ID, ErrNotFound)
	}

	org.CreatedAt = original.CreatedAt
	org.UpdatedAt = time.Now().UTC()

	m.organizations[org.ID] = org
	return org, nil
}

func (m *Memory) GetOrganization(_ context.Context, id string) (organization.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	org, ok := m.organizations[id]
	if !ok {
		return organization.Organization{}, fmt.Errorf("organization %s: %w", id, ErrNotFound)
	}
	return org, nil
}

func (m *Memory) ListOrganizations(_ context.Context) ([]organization.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]organization.Organization, 0, len(m.organizations))
	for _, org := range m.organizations {
		result = append(result, org)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *Memory) DeleteOrganization(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.organizations[id]; !ok {
		return fmt.Errorf("organization %s: %w", id, ErrNotFound)
	}
	delete(m.organizations, id)
	return nil
}

// DepartmentStore implementation ----------------------------------------------

func (m *Memory) CreateDepartment(_ context.Context, dept department.Department) (department.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dept.ID == "" {
		dept.ID = m.nextIDLocked()
	} else if _, exists := m.departments[dept.ID]; exists {
		return department.Department{}, fmt.Errorf("department %s already exists", dept.ID)
	}

	now := time.Now().UTC()
	dept.CreatedAt = now
	dept.UpdatedAt = now

	m.departments[dept.ID] = dept
	return dept, nil
}

func (m *Memory) UpdateDepartment(_ context.Context, dept department.Department) (department.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.departments[dept.ID]
	if !ok {
		return department.Department{}, fmt.Errorf("department %s: %w", dept.ID, ErrNotFound)
	}

	dept.CreatedAt = original.CreatedAt
	dept.UpdatedAt = time.Now().UTC()

	m.departments[dept.ID] = dept
	return dept, nil
}

func (m *Memory) GetDepartment(_ context.Context, id string) (department.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dept, ok := m.departments[id]
	if !ok {
		return department.Department{}, fmt.Errorf("department %s: %w", id, ErrNotFound)
	}
	return dept, nil
}

func (m *Memory) ListDepartments(_ context.Context, organizationID string) ([]department.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]department.Department, 0)
	for _, dept := range m.departments {
		if organizationID == "" || dept.OrganizationID == organizationID {
			result = append(result, dept)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) DeleteDepartment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.departments[id]; !ok {
		return fmt.Errorf("department %s: %w", id, ErrNotFound)
	}
	delete(m.departments, id)
	return nil
}

// UserStore implementation ------------------------------------------------------

func (m *Memory) CreateUser(_ context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, fmt.Errorf("email %s already registered", u.Email)
		}
	}

	if u.ID == "" {
		u.ID = m.nextIDLocked()
	} else if _, exists := m.users[u.ID]; exists {
		return user.User{}, fmt.Errorf("user %s already exists", u.ID)
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.users[u.ID]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
	}

	u.CreatedAt = original.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) GetUser(_ context.Context, id string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

func (m *Memory) ListUsers(_ context.Context, organizationID, departmentID string) ([]user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]user.User, 0)
	for _, u := range m.users {
		if organizationID != "" && u.OrganizationID != organizationID {
			continue
		}
		if departmentID != "" && u.DepartmentID != departmentID {
			continue
		}
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *Memory) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	delete(m.users, id)
	return nil
}

// ComplaintTypeStore implementation ---------------------------------------------

func (m *Memory) CreateComplaintType(_ context.Context, ct complaint.Type) (complaint.Type, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ct.ID == "" {
		ct.ID = m.nextIDLocked()
	} else if _, exists := m.types[ct.ID]; exists {
		return complaint.Type{}, fmt.Errorf("complaint type %s already exists", ct.ID)
	}

	now := time.Now().UTC()
	ct.CreatedAt = now
	ct.UpdatedAt = now

	m.types[ct.ID] = ct
	return ct, nil
}

func (m *Memory) UpdateComplaintType(_ context.Context, ct complaint.Type) (complaint.Type, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.types[ct.ID]
	if !ok {
		return complaint.Type{}, fmt.Errorf("complaint type %s: %w", ct.ID, ErrNotFound)
	}

	ct.CreatedAt = original.CreatedAt
	ct.UpdatedAt = time.Now().UTC()

	m.types[ct.ID] = ct
	return ct, nil
}

func (m *Memory) GetComplaintType(_ context.Context, id string) (complaint.Type, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ct, ok := m.types[id]
	if !ok {
		return complaint.Type{}, fmt.Errorf("complaint type %s: %w", id, ErrNotFound)
	}
	return ct, nil
}

func (m *Memory) ListComplaintTypes(_ context.Context, organizationID string) ([]complaint.Type, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]complaint.Type, 0)
	for _, ct := range m.types {
		if organizationID == "" || ct.OrganizationID == organizationID {
			result = append(result, ct)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) DeleteComplaintType(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.types[id]; !ok {
		return fmt.Errorf("complaint type %s: %w", id, ErrNotFound)
	}
	delete(m.types, id)
	return nil
}

// ComplaintStore implementation -------------------------------------------------

func (m *Memory) CreateComplaint(_ context.Context, c complaint.Complaint) (complaint.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = m.nextIDLocked()
	} else if _, exists := m.complaints[c.ID]; exists {
		return complaint.Complaint{}, fmt.Errorf("complaint %s already exists", c.ID)
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Attachments = append([]string(nil), c.Attachments...)

	m.complaints[c.ID] = c
	return cloneComplaint(c), nil
}

func (m *Memory) UpdateComplaint(_ context.Context, c complaint.Complaint) (complaint.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.complaints[c.ID]
	if !ok {
		return complaint.Complaint{}, fmt.Errorf("complaint %s: %w", c.ID, ErrNotFound)
	}

	c.CreatedAt = original.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	c.Attachments = append([]string(nil), c.Attachments...)

	m.complaints[c.ID] = c
	return cloneComplaint(c), nil
}

func (m *Memory) GetComplaint(_ context.Context, id string) (complaint.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.complaints[id]
	if !ok {
		return complaint.Complaint{}, fmt.Errorf("complaint %s: %w", id, ErrNotFound)
	}
	return cloneComplaint(c), nil
}

func (m *Memory) ListComplaints(_ context.Context, filter ComplaintFilter) ([]complaint.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]complaint.Complaint, 0)
	for _, c := range m.complaints {
		if filter.OrganizationID != "" && c.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.DepartmentID != "" && c.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		matched = append(matched, cloneComplaint(c))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	return paginate(matched, filter.Page, filter.Limit), nil
}

func (m *Memory) DeleteComplaint(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.complaints[id]; !ok {
		return fmt.Errorf("complaint %s: %w", id, ErrNotFound)
	}
	delete(m.complaints, id)
	return nil
}

// WorkflowStore implementation --------------------------------------------------

func (m *Memory) CreateWorkflow(_ context.Context, wf workflow.Workflow) (workflow.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.workflows {
		if existing.ComplaintID == wf.ComplaintID {
			return workflow.Workflow{}, fmt.Errorf("workflow for complaint %s already exists", wf.ComplaintID)
		}
	}

	if wf.ID == "" {
		wf.ID = m.nextIDLocked()
	} else if _, exists := m.workflows[wf.ID]; exists {
		return workflow.Workflow{}, fmt.Errorf("workflow %s already exists", wf.ID)
	}

	now := time.Now().UTC()
	wf.CreatedAt = now
	wf.UpdatedAt = now
	wf.Steps = append([]workflow.Step(nil), wf.Steps...)

	m.workflows[wf.ID] = wf
	return cloneWorkflow(wf), nil
}

func (m *Memory) UpdateWorkflow(_ context.Context, wf workflow.Workflow) (workflow.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.workflows[wf.ID]
	if !ok {
		return workflow.Workflow{}, fmt.Errorf("workflow %s: %w", wf.ID, ErrNotFound)
	}

	wf.CreatedAt = original.CreatedAt
	wf.UpdatedAt = time.Now().UTC()
	wf.Steps = append([]workflow.Step(nil), wf.Steps...)

	m.workflows[wf.ID] = wf
	return cloneWorkflow(wf), nil
}

func (m *Memory) GetWorkflow(_ context.Context, id string) (workflow.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wf, ok := m.workflows[id]
	if !ok {
		return workflow.Workflow{}, fmt.Errorf("workflow %s: %w", id, ErrNotFound)
	}
	return cloneWorkflow(wf), nil
}

func (m *Memory) GetWorkflowByComplaint(_ context.Context, complaintID string) (workflow.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, wf := range m.workflows {
		if wf.ComplaintID == complaintID {
			return cloneWorkflow(wf), nil
		}
	}
	return workflow.Workflow{}, fmt.Errorf("workflow for complaint %s: %w", complaintID, ErrNotFound)
}

func (m *Memory) ListWorkflows(_ context.Context) ([]workflow.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]workflow.Workflow, 0, len(m.workflows))
	for _, wf := range m.workflows {
		result = append(result, cloneWorkflow(wf))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *Memory) ListOverdueWorkflows(_ context.Context, asOf time.Time) ([]workflow.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]workflow.Workflow, 0)
	for _, wf := range m.workflows {
		if wf.Status != workflow.StatusActive && wf.Status != workflow.StatusPending {
			continue
		}
		if !wf.DueAt.IsZero() && wf.DueAt.Before(asOf) {
			result = append(result, cloneWorkflow(wf))
		}
	}
	return result, nil
}

// NotificationStore implementation ----------------------------------------------

func (m *Memory) CreateNotification(_ context.Context, n notification.Notification) (notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n.ID == "" {
		n.ID = m.nextIDLocked()
	} else if _, exists := m.notifications[n.ID]; exists {
		return notification.Notification{}, fmt.Errorf("notification %s already exists", n.ID)
	}

	n.CreatedAt = time.Now().UTC()
	m.notifications[n.ID] = n
	return n, nil
}

func (m *Memory) UpdateNotification(_ context.Context, n notification.Notification) (notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.notifications[n.ID]
	if !ok {
		return notification.Notification{}, fmt.Errorf("notification %s: %w", n.ID, ErrNotFound)
	}

	n.CreatedAt = original.CreatedAt
	m.notifications[n.ID] = n
	return n, nil
}

func (m *Memory) GetNotification(_ context.Context, id string) (notification.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifications[id]
	if !ok {
		return notification.Notification{}, fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return n, nil
}

func (m *Memory) ListNotifications(_ context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]notification.Notification, 0)
	for _, n := range m.notifications {
		if userID != "" && n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// FeedbackStore implementation --------------------------------------------------

func (m *Memory) CreateFeedback(_ context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.feedback {
		if existing.ComplaintID == fb.ComplaintID {
			return feedback.Feedback{}, fmt.Errorf("feedback for complaint %s already exists", fb.ComplaintID)
		}
	}

	if fb.ID == "" {
		fb.ID = m.nextIDLocked()
	} else if _, exists := m.feedback[fb.ID]; exists {
		return feedback.Feedback{}, fmt.Errorf("feedback %s already exists", fb.ID)
	}

	fb.CreatedAt = time.Now().UTC()
	m.feedback[fb.ID] = fb
	return fb, nil
}

func (m *Memory) GetFeedback(_ context.Context, id string) (feedback.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fb, ok := m.feedback[id]
	if !ok {
		return feedback.Feedback{}, fmt.Errorf("feedback %s: %w", id, ErrNotFound)
	}
	return fb, nil
}

func (m *Memory) GetFeedbackByComplaint(_ context.Context, complaintID string) (feedback.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, fb := range m.feedback {
		if fb.ComplaintID == complaintID {
			return fb, nil
		}
	}
	return feedback.Feedback{}, fmt.Errorf("feedback for complaint %s: %w", complaintID, ErrNotFound)
}

func (m *Memory) ListFeedback(_ context.Context, organizationID string, rating int) ([]feedback.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]feedback.Feedback, 0)
	for _, fb := range m.feedback {
		if rating != 0 && fb.Rating != rating {
			continue
		}
		if organizationID != "" {
			c, ok := m.complaints[fb.ComplaintID]
			if !ok || c.OrganizationID != organizationID {
				continue
			}
		}
		result = append(result, fb)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// SessionStore implementation ---------------------------------------------------

func (m *Memory) CreateSession(_ context.Context, s auth.Session) (auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == "" {
		s.ID = m.nextIDLocked()
	}
	s.CreatedAt = time.Now().UTC()
	m.sessions[s.TokenHash] = s
	return s, nil
}

func (m *Memory) GetSessionByTokenHash(_ context.Context, tokenHash string) (auth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[tokenHash]
	if !ok {
		return auth.Session{}, fmt.Errorf("session: %w", ErrNotFound)
	}
	return s, nil
}

func (m *Memory) DeleteSessionByTokenHash(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[tokenHash]; !ok {
		return fmt.Errorf("session: %w", ErrNotFound)
	}
	delete(m.sessions, tokenHash)
	return nil
}

func (m *Memory) DeleteExpiredSessions(_ context.Context, asOf time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for hash, s := range m.sessions {
		if s.ExpiresAt.Before(asOf) {
			delete(m.sessions, hash)
		}
	}
	return nil
}

// Helpers ----------------------------------------------------------------------

func paginate(items []complaint.Complaint, page, limit int) []complaint.Complaint {
	if limit <= 0 {
		return items
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []complaint.Complaint{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func cloneComplaint(c complaint.Complaint) complaint.Complaint {
	c.Attachments = append([]string(nil), c.Attachments...)
	return c
}

func cloneWorkflow(wf workflow.Workflow) workflow.Workflow {
	wf.Steps = append([]workflow.Step(nil), wf.Steps...)
	return wf
}

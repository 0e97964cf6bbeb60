// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/auth"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/complaint"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/department"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/feedback"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/notification"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/organization"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/workflow"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.OrganizationStore = (*Store)(nil)
var _ storage.DepartmentStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)
var _ storage.ComplaintTypeStore = (*Store)(nil)
var _ storage.ComplaintStore = (*Store)(nil)
var _ storage.WorkflowStore = (*Store)(nil)
var _ storage.NotificationStore = (*Store)(nil)
var _ storage.FeedbackStore = (*Store)(nil)
var _ storage.SessionStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return err
}

// --- OrganizationStore ------------------------------------------------------

func (s *Store) CreateOrganization(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, contact_email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, org.ID, org.Name, org.ContactEmail, org.Phone, org.Address, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		return organization.Organization{}, err
	}
	return org, nil
}

func (s *Store) UpdateOrganization(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	existing, err := s.GetOrganization(ctx, org.ID)
	if err != nil {
		return organization.Organization{}, err
	}

	org.CreatedAt = existing.CreatedAt
	org.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE organizations
		SET name = $2, contact_email = $3, phone = $4, address = $5, updated_at = $6
		WHERE id = $1
	`, org.ID, org.Name, org.ContactEmail, org.Phone, org.Address, org.UpdatedAt)
	if err != nil {
		return organization.Organization{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return organization.Organization{}, fmt.Errorf("organization %s: %w", org.ID, storage.ErrNotFound)
	}
	return org, nil
}

func (s *Store) GetOrganization(ctx context.Context, id string) (organization.Organization, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, contact_email, phone, address, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, id)

	var org organization.Organization
	if err := row.Scan(&org.ID, &org.Name, &org.ContactEmail, &org.Phone, &org.Address, &org.CreatedAt, &org.UpdatedAt); err != nil {
		return organization.Organization{}, notFound(err, "organization", id)
	}
	return org, nil
}

func (s *Store) ListOrganizations(ctx context.Context) ([]organization.Organization, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, contact_email, phone, address, created_at, updated_at
		FROM organizations
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []organization.Organization
	for rows.Next() {
		var org organization.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.ContactEmail, &org.Phone, &org.Address, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, org)
	}
	return result, rows.Err()
}

func (s *Store) DeleteOrganization(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("organization %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// --- DepartmentStore --------------------------------------------------------

func (s *Store) CreateDepartment(ctx context.Context, dept department.Department) (department.Department, error) {
	if dept.ID == "" {
		dept.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	dept.CreatedAt = now
	dept.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO departments (id, organization_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, dept.ID, dept.OrganizationID, dept.Name, dept.Description, dept.CreatedAt, dept.UpdatedAt)
	if err != nil {
		return department.Department{}, err
	}
	return dept, nil
}

func (s *Store) UpdateDepartment(ctx context.Context, dept department.Department) (department.Department, error) {
	existing, err := s.GetDepartment(ctx, dept.ID)
	if err != nil {
		return department.Department{}, err
	}

	dept.CreatedAt = existing.CreatedAt
	dept.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE departments
		SET organization_id = $2, name = $3, description = $4, updated_at = $5
		WHERE id = $1
	`, dept.ID, dept.OrganizationID, dept.Name, dept.Description, dept.UpdatedAt)
	if err != nil {
		return department.Department{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return department.Department{}, fmt.Errorf("department %s: %w", dept.ID, storage.ErrNotFound)
	}
	return dept, nil
}

func (s *Store) GetDepartment(ctx context.Context, id string) (department.Department, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, name, description, created_at, updated_at
		FROM departments
		WHERE id = $1
	`, id)

	var dept department.Department
	if err := row.Scan(&dept.ID, &dept.OrganizationID, &dept.Name, &dept.Description, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
		return department.Department{}, notFound(err, "department", id)
	}
	return dept, nil
}

func (s *Store) ListDepartments(ctx context.Context, organizationID string) ([]department.Department, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, name, description, created_at, updated_at
		FROM departments
		WHERE ($1 = '' OR organization_id = $1)
		ORDER BY name
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []department.Department
	for rows.Next() {
		var dept department.Department
		if err := rows.Scan(&dept.ID, &dept.OrganizationID, &dept.Name, &dept.Description, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("department %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, organization_id, department_id, first_name, last_name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, u.ID, u.OrganizationID, u.DepartmentID, u.FirstName, u.LastName, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	existing, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return user.User{}, err
	}

	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET organization_id = $2, department_id = $3, first_name = $4, last_name = $5,
		    email = $6, password_hash = $7, role = $8, updated_at = $9
		WHERE id = $1
	`, u.ID, u.OrganizationID, u.DepartmentID, u.FirstName, u.LastName, u.Email, u.PasswordHash, string(u.Role), u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}
	return u, nil
}

func scanUser(row interface{ Scan(...interface{}) error }) (user.User, error) {
	var u user.User
	var role string
	err := row.Scan(&u.ID, &u.OrganizationID, &u.DepartmentID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, department_id, first_name, last_name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	u, err := scanUser(row)
	if err != nil {
		return user.User{}, notFound(err, "user", id)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, department_id, first_name, last_name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email)

	u, err := scanUser(row)
	if err != nil {
		return user.User{}, notFound(err, "user", email)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, organizationID, departmentID string) ([]user.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, department_id, first_name, last_name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE ($1 = '' OR organization_id = $1)
		  AND ($2 = '' OR department_id = $2)
		ORDER BY created_at
	`, organizationID, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// --- ComplaintTypeStore -----------------------------------------------------

func (s *Store) CreateComplaintType(ctx context.Context, ct complaint.Type) (complaint.Type, error) {
	if ct.ID == "" {
		ct.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	ct.CreatedAt = now
	ct.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO complaint_types (id, organization_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ct.ID, ct.OrganizationID, ct.Name, ct.Description, ct.CreatedAt, ct.UpdatedAt)
	if err != nil {
		return complaint.Type{}, err
	}
	return ct, nil
}

func (s *Store) UpdateComplaintType(ctx context.Context, ct complaint.Type) (complaint.Type, error) {
	existing, err := s.GetComplaintType(ctx, ct.ID)
	if err != nil {
		return complaint.Type{}, err
	}

	ct.CreatedAt = existing.CreatedAt
	ct.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE complaint_types
		SET organization_id = $2, name = $3, description = $4, updated_at = $5
		WHERE id = $1
	`, ct.ID, ct.OrganizationID, ct.Name, ct.Description, ct.UpdatedAt)
	if err != nil {
		return complaint.Type{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return complaint.Type{}, fmt.Errorf("complaint type %s: %w", ct.ID, storage.ErrNotFound)
	}
	return ct, nil
}

func (s *Store) GetComplaintType(ctx context.Context, id string) (complaint.Type, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, name, description, created_at, updated_at
		FROM complaint_types
		WHERE id = $1
	`, id)

	var ct complaint.Type
	if err := row.Scan(&ct.ID, &ct.OrganizationID, &ct.Name, &ct.Description, &ct.CreatedAt, &ct.UpdatedAt); err != nil {
		return complaint.Type{}, notFound(err, "complaint type", id)
	}
	return ct, nil
}

func (s *Store) ListComplaintTypes(ctx context.Context, organizationID string) ([]complaint.Type, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, name, description, created_at, updated_at
		FROM complaint_types
		WHERE ($1 = '' OR organization_id = $1)
		ORDER BY name
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []complaint.Type
	for rows.Next() {
		var ct complaint.Type
		if err := rows.Scan(&ct.ID, &ct.OrganizationID, &ct.Name, &ct.Description, &ct.CreatedAt, &ct.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, ct)
	}
	return result, rows.Err()
}

func (s *Store) DeleteComplaintType(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM complaint_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("complaint type %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// --- ComplaintStore ---------------------------------------------------------

func (s *Store) CreateComplaint(ctx context.Context, c complaint.Complaint) (complaint.Complaint, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	attachmentsJSON, err := json.Marshal(c.Attachments)
	if err != nil {
		return complaint.Complaint{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO complaints (id, organization_id, department_id, type_id, submitter_id, subject,
		                        description, location, status, priority, attachments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, c.ID, c.OrganizationID, c.DepartmentID, c.TypeID, c.SubmitterID, c.Subject,
		c.Description, c.Location, string(c.Status), string(c.Priority), attachmentsJSON, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return complaint.Complaint{}, err
	}
	return c, nil
}

func (s *Store) UpdateComplaint(ctx context.Context, c complaint.Complaint) (complaint.Complaint, error) {
	existing, err := s.GetComplaint(ctx, c.ID)
	if err != nil {
		return complaint.Complaint{}, err
	}

	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	attachmentsJSON, err := json.Marshal(c.Attachments)
	if err != nil {
		return complaint.Complaint{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE complaints
		SET organization_id = $2, department_id = $3, type_id = $4, submitter_id = $5, subject = $6,
		    description = $7, location = $8, status = $9, priority = $10, attachments = $11, updated_at = $12
		WHERE id = $1
	`, c.ID, c.OrganizationID, c.DepartmentID, c.TypeID, c.SubmitterID, c.Subject,
		c.Description, c.Location, string(c.Status), string(c.Priority), attachmentsJSON, c.UpdatedAt)
	if err != nil {
		return complaint.Complaint{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return complaint.Complaint{}, fmt.Errorf("complaint %s: %w", c.ID, storage.ErrNotFound)
	}
	return c, nil
}

func scanComplaint(row interface{ Scan(...interface{}) error }) (complaint.Complaint, error) {
	var (
		c              complaint.Complaint
		status         string
		priority       string
		attachmentsRaw []byte
	)
	err := row.Scan(&c.ID, &c.OrganizationID, &c.DepartmentID, &c.TypeID, &c.SubmitterID, &c.Subject,
		&c.Description, &c.Location, &status, &priority, &attachmentsRaw, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return complaint.Complaint{}, err
	}
	c.Status = complaint.Status(status)
	c.Priority = complaint.Priority(priority)
	if len(attachmentsRaw) > 0 {
		if err := json.Unmarshal(attachmentsRaw, &c.Attachments); err != nil {
			return complaint.Complaint{}, fmt.Errorf("decode attachments for complaint %s: %w", c.ID, err)
		}
	}
	return c, nil
}

func (s *Store) GetComplaint(ctx context.Context, id string) (complaint.Complaint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, department_id, type_id, submitter_id, subject,
		       description, location, status, priority, attachments, created_at, updated_at
		FROM complaints
		WHERE id = $1
	`, id)

	c, err := scanComplaint(row)
	if err != nil {
		return complaint.Complaint{}, notFound(err, "complaint", id)
	}
	return c, nil
}

func (s *Store) ListComplaints(ctx context.Context, filter storage.ComplaintFilter) ([]complaint.Complaint, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 1 << 30
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * filter.Limit
	if filter.Limit <= 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, department_id, type_id, submitter_id, subject,
		       description, location, status, priority, attachments, created_at, updated_at
		FROM complaints
		WHERE ($1 = '' OR organization_id = $1)
		  AND ($2 = '' OR department_id = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, filter.OrganizationID, filter.DepartmentID, string(filter.Status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []complaint.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) DeleteComplaint(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("complaint %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// --- WorkflowStore ----------------------------------------------------------

func (s *Store) CreateWorkflow(ctx context.Context, wf workflow.Workflow) (workflow.Workflow, error) {
	if wf.ID == "" {
		wf.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	wf.CreatedAt = now
	wf.UpdatedAt = now

	stepsJSON, err := json.Marshal(wf.Steps)
	if err != nil {
		return workflow.Workflow{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workflows (id, complaint_id, department_id, assignee_id, status, steps, current_step, due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, wf.ID, wf.ComplaintID, wf.DepartmentID, wf.AssigneeID, string(wf.Status), stepsJSON, wf.CurrentStep, wf.DueAt, wf.CreatedAt, wf.UpdatedAt)
	if err != nil {
		return workflow.Workflow{}, err
	}
	return wf, nil
}

func (s *Store) UpdateWorkflow(ctx context.Context, wf workflow.Workflow) (workflow.Workflow, error) {
	existing, err := s.GetWorkflow(ctx, wf.ID)
	if err != nil {
		return workflow.Workflow{}, err
	}

	wf.CreatedAt = existing.CreatedAt
	wf.UpdatedAt = time.Now().UTC()

	stepsJSON, err := json.Marshal(wf.Steps)
	if err != nil {
		return workflow.Workflow{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE workflows
		SET complaint_id = $2, department_id = $3, assignee_id = $4, status = $5,
		    steps = $6, current_step = $7, due_at = $8, updated_at = $9
		WHERE id = $1
	`, wf.ID, wf.ComplaintID, wf.DepartmentID, wf.AssigneeID, string(wf.Status), stepsJSON, wf.CurrentStep, wf.DueAt, wf.UpdatedAt)
	if err != nil {
		return workflow.Workflow{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return workflow.Workflow{}, fmt.Errorf("workflow %s: %w", wf.ID, storage.ErrNotFound)
	}
	return wf, nil
}

func scanWorkflow(row interface{ Scan(...interface{}) error }) (workflow.Workflow, error) {
	var (
		wf       workflow.Workflow
		status   string
		stepsRaw []byte
	)
	err := row.Scan(&wf.ID, &wf.ComplaintID, &wf.DepartmentID, &wf.AssigneeID, &status, &stepsRaw, &wf.CurrentStep, &wf.DueAt, &wf.CreatedAt, &wf.UpdatedAt)
	if err != nil {
		return workflow.Workflow{}, err
	}
	wf.Status = workflow.Status(status)
	if len(stepsRaw) > 0 {
		if err := json.Unmarshal(stepsRaw, &wf.Steps); err != nil {
			return workflow.Workflow{}, fmt.Errorf("decode steps for workflow %s: %w", wf.ID, err)
		}
	}
	return wf, nil
}

func (s *Store) GetWorkflow(ctx context.Context, id string) (workflow.Workflow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, complaint_id, department_id, assignee_id, status, steps, current_step, due_at, created_at, updated_at
		FROM workflows
		WHERE id = $1
	`, id)

	wf, err := scanWorkflow(row)
	if err != nil {
		return workflow.Workflow{}, notFound(err, "workflow", id)
	}
	return wf, nil
}

func (s *Store) GetWorkflowByComplaint(ctx context.Context, complaintID string) (workflow.Workflow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, complaint_id, department_id, assignee_id, status, steps, current_step, due_at, created_at, updated_at
		FROM workflows
		WHERE complaint_id = $1
	`, complaintID)

	wf, err := scanWorkflow(row)
	if err != nil {
		return workflow.Workflow{}, notFound(err, "workflow for complaint", complaintID)
	}
	return wf, nil
}

func (s *Store) ListWorkflows(ctx context.Context) ([]workflow.Workflow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, complaint_id, department_id, assignee_id, status, steps, current_step, due_at, created_at, updated_at
		FROM workflows
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []workflow.Workflow
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, wf)
	}
	return result, rows.Err()
}

func (s *Store) ListOverdueWorkflows(ctx context.Context, asOf time.Time) ([]workflow.Workflow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, complaint_id, department_id, assignee_id, status, steps, current_step, due_at, created_at, updated_at
		FROM workflows
		WHERE status IN ('pending', 'active') AND due_at < $1
	`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []workflow.Workflow
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, wf)
	}
	return result, rows.Err()
}

// --- NotificationStore ------------------------------------------------------

func (s *Store) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, kind, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, n.ID, n.UserID, n.Kind, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

func (s *Store) UpdateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications
		SET user_id = $2, kind = $3, message = $4, read = $5
		WHERE id = $1
	`, n.ID, n.UserID, n.Kind, n.Message, n.Read)
	if err != nil {
		return notification.Notification{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return notification.Notification{}, fmt.Errorf("notification %s: %w", n.ID, storage.ErrNotFound)
	}
	return n, nil
}

func (s *Store) GetNotification(ctx context.Context, id string) (notification.Notification, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, kind, message, read, created_at
		FROM notifications
		WHERE id = $1
	`, id)

	var n notification.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.Read, &n.CreatedAt); err != nil {
		return notification.Notification{}, notFound(err, "notification", id)
	}
	return n, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, kind, message, read, created_at
		FROM notifications
		WHERE ($1 = '' OR user_id = $1)
		  AND (NOT $2 OR read = false)
		ORDER BY created_at DESC
	`, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// --- FeedbackStore ----------------------------------------------------------

func (s *Store) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	fb.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, complaint_id, submitter_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, fb.ID, fb.ComplaintID, fb.SubmitterID, fb.Rating, fb.Comment, fb.CreatedAt)
	if err != nil {
		return feedback.Feedback{}, err
	}
	return fb, nil
}

func (s *Store) GetFeedback(ctx context.Context, id string) (feedback.Feedback, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, complaint_id, submitter_id, rating, comment, created_at
		FROM feedback
		WHERE id = $1
	`, id)

	var fb feedback.Feedback
	if err := row.Scan(&fb.ID, &fb.ComplaintID, &fb.SubmitterID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
		return feedback.Feedback{}, notFound(err, "feedback", id)
	}
	return fb, nil
}

func (s *Store) GetFeedbackByComplaint(ctx context.Context, complaintID string) (feedback.Feedback, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, complaint_id, submitter_id, rating, comment, created_at
		FROM feedback
		WHERE complaint_id = $1
	`, complaintID)

	var fb feedback.Feedback
	if err := row.Scan(&fb.ID, &fb.ComplaintID, &fb.SubmitterID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
		return feedback.Feedback{}, notFound(err, "feedback for complaint", complaintID)
	}
	return fb, nil
}

func (s *Store) ListFeedback(ctx context.Context, organizationID string, rating int) ([]feedback.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.complaint_id, f.submitter_id, f.rating, f.comment, f.created_at
		FROM feedback f
		JOIN complaints c ON c.id = f.complaint_id
		WHERE ($1 = '' OR c.organization_id = $1)
		  AND ($2 = 0 OR f.rating = $2)
		ORDER BY f.created_at DESC
	`, organizationID, rating)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []feedback.Feedback
	for rows.Next() {
		var fb feedback.Feedback
		if err := rows.Scan(&fb.ID, &fb.ComplaintID, &fb.SubmitterID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}

// --- SessionStore -----------------------------------------------------------

func (s *Store) CreateSession(ctx context.Context, sess auth.Session) (auth.Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	sess.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sess.ID, sess.UserID, sess.TokenHash, sess.ExpiresAt, sess.CreatedAt)
	if err != nil {
		return auth.Session{}, err
	}
	return sess, nil
}

func (s *Store) GetSessionByTokenHash(ctx context.Context, tokenHash string) (auth.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1
	`, tokenHash)

	var sess auth.Session
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.TokenHash, &sess.ExpiresAt, &sess.CreatedAt); err != nil {
		return auth.Session{}, notFound(err, "session", "by token")
	}
	return sess, nil
}

func (s *Store) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("session: %w", storage.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, asOf time.Time) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, asOf)
	return err
}

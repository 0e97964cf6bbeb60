// Package departments manages the departments complaints are routed to.
package departments

import (
	"context"
	"fmt"
	"strings"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/department"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// Service manages departments.
type Service struct {
	organizations storage.OrganizationStore
	store         storage.DepartmentStore
	log           *logger.Logger
}

// New constructs a department service.
func New(organizations storage.OrganizationStore, store storage.DepartmentStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("departments")
	}
	return &Service{
		organizations: organizations,
		store:         store,
		log:           log,
	}
}

// Create registers a new department under an organization.
func (s *Service) Create(ctx context.Context, organizationID, name, description string) (department.Department, error) {
	organizationID = strings.TrimSpace(organizationID)
	name = strings.TrimSpace(name)

	if organizationID == "" {
		return department.Department{}, fmt.Errorf("organization_id is required")
	}
	if name == "" {
		return department.Department{}, fmt.Errorf("name is required")
	}

	if s.organizations != nil {
		if _, err := s.organizations.GetOrganization(ctx, organizationID); err != nil {
			return department.Department{}, fmt.Errorf("organization validation failed: %w", err)
		}
	}

	dept := department.Department{
		OrganizationID: organizationID,
		Name:           name,
		Description:    strings.TrimSpace(description),
	}
	dept, err := s.store.CreateDepartment(ctx, dept)
	if err != nil {
		return department.Department{}, err
	}
	s.log.WithField("department_id", dept.ID).
		WithField("organization_id", organizationID).
		Info("department created")
	return dept, nil
}

// Update modifies mutable fields on a department.
func (s *Service) Update(ctx context.Context, id string, name, description *string) (department.Department, error) {
	dept, err := s.store.GetDepartment(ctx, id)
	if err != nil {
		return department.Department{}, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return department.Department{}, fmt.Errorf("name cannot be empty")
		}
		dept.Name = trimmed
	}
	if description != nil {
		dept.Description = strings.TrimSpace(*description)
	}

	dept, err = s.store.UpdateDepartment(ctx, dept)
	if err != nil {
		return department.Department{}, err
	}
	s.log.WithField("department_id", dept.ID).Info("department updated")
	return dept, nil
}

// Get returns one department by ID.
func (s *Service) Get(ctx context.Context, id string) (department.Department, error) {
	return s.store.GetDepartment(ctx, id)
}

// List returns departments, optionally filtered by organization.
func (s *Service) List(ctx context.Context, organizationID string) ([]department.Department, error) {
	return s.store.ListDepartments(ctx, strings.TrimSpace(organizationID))
}

// Delete removes a department.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteDepartment(ctx, id); err != nil {
		return err
	}
	s.log.WithField("department_id", id).Info("department deleted")
	return nil
}

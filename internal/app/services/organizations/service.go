// Package organizations manages the organizations that receive complaints.
package organizations

import (
	"context"
	"fmt"
	"strings"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/organization"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// Service manages organizations.
type Service struct {
	store storage.OrganizationStore
	log   *logger.Logger
}

// New constructs an organization service.
func New(store storage.OrganizationStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("organizations")
	}
	return &Service{store: store, log: log}
}

// Create registers a new organization.
func (s *Service) Create(ctx context.Context, name, contactEmail, phone, address string) (organization.Organization, error) {
	name = strings.TrimSpace(name)
	contactEmail = strings.TrimSpace(contactEmail)

	if name == "" {
		return organization.Organization{}, fmt.Errorf("name is required")
	}

	org := organization.Organization{
		Name:         name,
		ContactEmail: contactEmail,
		Phone:        strings.TrimSpace(phone),
		Address:      strings.TrimSpace(address),
	}
	org, err := s.store.CreateOrganization(ctx, org)
	if err != nil {
		return organization.Organization{}, err
	}
	s.log.WithField("organization_id", org.ID).Info("organization created")
	return org, nil
}

// Update modifies mutable fields on an organization.
func (s *Service) Update(ctx context.Context, id string, name, contactEmail, phone, address *string) (organization.Organization, error) {
	org, err := s.store.GetOrganization(ctx, id)
	if err != nil {
		return organization.Organization{}, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return organization.Organization{}, fmt.Errorf("name cannot be empty")
		}
		org.Name = trimmed
	}
	if contactEmail != nil {
		org.ContactEmail = strings.TrimSpace(*contactEmail)
	}
	if phone != nil {
		org.Phone = strings.TrimSpace(*phone)
	}
	if address != nil {
		org.Address = strings.TrimSpace(*address)
	}

	org, err = s.store.UpdateOrganization(ctx, org)
	if err != nil {
		return organization.Organization{}, err
	}
	s.log.WithField("organization_id", org.ID).Info("organization updated")
	return org, nil
}

// Get returns one organization by ID.
func (s *Service) Get(ctx context.Context, id string) (organization.Organization, error) {
	return s.store.GetOrganization(ctx, id)
}

// List returns all organizations.
func (s *Service) List(ctx context.Context) ([]organization.Organization, error) {
	return s.store.ListOrganizations(ctx)
}

// Delete removes an organization.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteOrganization(ctx, id); err != nil {
		return err
	}
	s.log.WithField("organization_id", id).Info("organization deleted")
	return nil
}

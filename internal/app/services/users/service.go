// Package users manages user accounts and profiles.
package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// Service manages user accounts.
type Service struct {
	store storage.UserStore
	log   *logger.Logger
}

// New constructs a user service.
func New(store storage.UserStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	return &Service{store: store, log: log}
}

// CreateParams carries the fields for registering a user.
type CreateParams struct {
	OrganizationID string
	DepartmentID   string
	FirstName      string
	LastName       string
	Email          string
	Password       string
	Role           user.Role
}

// Create registers a new user with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, p CreateParams) (user.User, error) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))

	if p.FirstName == "" || p.LastName == "" {
		return user.User{}, fmt.Errorf("first_name and last_name are required")
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return user.User{}, fmt.Errorf("a valid email is required")
	}
	if len(p.Password) < 8 {
		return user.User{}, fmt.Errorf("password must be at least 8 characters")
	}
	if p.Role == "" {
		p.Role = user.RoleCitizen
	}
	if !p.Role.Valid() {
		return user.User{}, fmt.Errorf("invalid role %q", p.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.User{
		OrganizationID: strings.TrimSpace(p.OrganizationID),
		DepartmentID:   strings.TrimSpace(p.DepartmentID),
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		PasswordHash:   string(hash),
		Role:           p.Role,
	}
	u, err = s.store.CreateUser(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	s.log.WithField("user_id", u.ID).
		WithField("role", string(u.Role)).
		Info("user created")
	return u, nil
}

// UpdateParams carries the optional fields for updating a user. Nil
// fields are left unchanged.
type UpdateParams struct {
	FirstName    *string
	LastName     *string
	DepartmentID *string
	Role         *user.Role
	Password     *string
}

// Update modifies mutable fields on a user.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (user.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if p.FirstName != nil {
		trimmed := strings.TrimSpace(*p.FirstName)
		if trimmed == "" {
			return user.User{}, fmt.Errorf("first_name cannot be empty")
		}
		u.FirstName = trimmed
	}
	if p.LastName != nil {
		trimmed := strings.TrimSpace(*p.LastName)
		if trimmed == "" {
			return user.User{}, fmt.Errorf("last_name cannot be empty")
		}
		u.LastName = trimmed
	}
	if p.DepartmentID != nil {
		u.DepartmentID = strings.TrimSpace(*p.DepartmentID)
	}
	if p.Role != nil {
		if !p.Role.Valid() {
			return user.User{}, fmt.Errorf("invalid role %q", *p.Role)
		}
		u.Role = *p.Role
	}
	if p.Password != nil {
		if len(*p.Password) < 8 {
			return user.User{}, fmt.Errorf("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
		if err != nil {
			return user.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	u, err = s.store.UpdateUser(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	s.log.WithField("user_id", u.ID).Info("user updated")
	return u, nil
}

// Get returns one user by ID.
func (s *Service) Get(ctx context.Context, id string) (user.User, error) {
	return s.store.GetUser(ctx, id)
}

// GetByEmail returns one user by email address.
func (s *Service) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return s.store.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

// List returns users, optionally filtered by organization and department.
func (s *Service) List(ctx context.Context, organizationID, departmentID string) ([]user.User, error) {
	return s.store.ListUsers(ctx, strings.TrimSpace(organizationID), strings.TrimSpace(departmentID))
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.WithField("user_id", id).Info("user deleted")
	return nil
}

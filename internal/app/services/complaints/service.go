// Package complaints manages complaint categories, complaint records and
// their uploaded attachments.
package complaints

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/complaint"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// Notifier delivers a notification to a user. The notifications service
// satisfies this.
type Notifier interface {
	Notify(ctx context.Context, userID, kind, message string) error
}

// Service manages complaint types and complaints.
type Service struct {
	store      storage.ComplaintStore
	types      storage.ComplaintTypeStore
	notifier   Notifier
	uploadsDir string
	log        *logger.Logger
}

// New constructs a complaint service. notifier may be nil, in which case
// status changes are not announced.
func New(store storage.ComplaintStore, types storage.ComplaintTypeStore, notifier Notifier, uploadsDir string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("complaints")
	}
	return &Service{
		store:      store,
		types:      types,
		notifier:   notifier,
		uploadsDir: uploadsDir,
		log:        log,
	}
}

// --- Complaint types --------------------------------------------------------

// CreateType registers a complaint category for an organization.
func (s *Service) CreateType(ctx context.Context, organizationID, name, description string) (complaint.Type, error) {
	organizationID = strings.TrimSpace(organizationID)
	name = strings.TrimSpace(name)

	if organizationID == "" {
		return complaint.Type{}, fmt.Errorf("organization_id is required")
	}
	if name == "" {
		return complaint.Type{}, fmt.Errorf("name is required")
	}

	existing, err := s.types.ListComplaintTypes(ctx, organizationID)
	if err != nil {
		return complaint.Type{}, err
	}
	for _, ct := range existing {
		if strings.EqualFold(ct.Name, name) {
			return complaint.Type{}, fmt.Errorf("complaint type %q already exists", name)
		}
	}

	ct := complaint.Type{
		OrganizationID: organizationID,
		Name:           name,
		Description:    strings.TrimSpace(description),
	}
	ct, err = s.types.CreateComplaintType(ctx, ct)
	if err != nil {
		return complaint.Type{}, err
	}
	s.log.WithField("type_id", ct.ID).Info("complaint type created")
	return ct, nil
}

// UpdateType modifies mutable fields on a complaint type.
func (s *Service) UpdateType(ctx context.Context, id string, name, description *string) (complaint.Type, error) {
	ct, err := s.types.GetComplaintType(ctx, id)
	if err != nil {
		return complaint.Type{}, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return complaint.Type{}, fmt.Errorf("name cannot be empty")
		}
		ct.Name = trimmed
	}
	if description != nil {
		ct.Description = strings.TrimSpace(*description)
	}

	ct, err = s.types.UpdateComplaintType(ctx, ct)
	if err != nil {
		return complaint.Type{}, err
	}
	s.log.WithField("type_id", ct.ID).Info("complaint type updated")
	return ct, nil
}

// GetType returns one complaint type by ID.
func (s *Service) GetType(ctx context.Context, id string) (complaint.Type, error) {
	return s.types.GetComplaintType(ctx, id)
}

// ListTypes returns complaint types, optionally filtered by organization.
func (s *Service) ListTypes(ctx context.Context, organizationID string) ([]complaint.Type, error) {
	return s.types.ListComplaintTypes(ctx, strings.TrimSpace(organizationID))
}

// DeleteType removes a complaint type.
func (s *Service) DeleteType(ctx context.Context, id string) error {
	if err := s.types.DeleteComplaintType(ctx, id); err != nil {
		return err
	}
	s.log.WithField("type_id", id).Info("complaint type deleted")
	return nil
}

// --- Complaints -------------------------------------------------------------

// CreateParams carries the fields for filing a complaint.
type CreateParams struct {
	OrganizationID string
	DepartmentID   string
	TypeID         string
	SubmitterID    string
	Subject        string
	Description    string
	Location       string
	Priority       complaint.Priority
	Attachments    []string
}

// Create files a new complaint. It opens in status "open".
func (s *Service) Create(ctx context.Context, p CreateParams) (complaint.Complaint, error) {
	p.OrganizationID = strings.TrimSpace(p.OrganizationID)
	p.SubmitterID = strings.TrimSpace(p.SubmitterID)
	p.Subject = strings.TrimSpace(p.Subject)

	if p.OrganizationID == "" {
		return complaint.Complaint{}, fmt.Errorf("organization_id is required")
	}
	if p.SubmitterID == "" {
		return complaint.Complaint{}, fmt.Errorf("submitter_id is required")
	}
	if p.Subject == "" {
		return complaint.Complaint{}, fmt.Errorf("subject is required")
	}
	if p.Priority == "" {
		p.Priority = complaint.PriorityMedium
	}
	if !p.Priority.Valid() {
		return complaint.Complaint{}, fmt.Errorf("invalid priority %q", p.Priority)
	}
	if p.TypeID != "" {
		if _, err := s.types.GetComplaintType(ctx, p.TypeID); err != nil {
			return complaint.Complaint{}, fmt.Errorf("complaint type validation failed: %w", err)
		}
	}

	c := complaint.Complaint{
		OrganizationID: p.OrganizationID,
		DepartmentID:   strings.TrimSpace(p.DepartmentID),
		TypeID:         strings.TrimSpace(p.TypeID),
		SubmitterID:    p.SubmitterID,
		Subject:        p.Subject,
		Description:    strings.TrimSpace(p.Description),
		Location:       strings.TrimSpace(p.Location),
		Status:         complaint.StatusOpen,
		Priority:       p.Priority,
		Attachments:    p.Attachments,
	}
	c, err := s.store.CreateComplaint(ctx, c)
	if err != nil {
		return complaint.Complaint{}, err
	}
	s.log.WithField("complaint_id", c.ID).
		WithField("organization_id", c.OrganizationID).
		Info("complaint created")

	s.notify(ctx, c.SubmitterID, "complaint_created",
		fmt.Sprintf("Your complaint %q has been received.", c.Subject))
	return c, nil
}

// UpdateParams carries the optional fields for updating a complaint. Nil
// fields are left unchanged.
type UpdateParams struct {
	DepartmentID *string
	TypeID       *string
	Subject      *string
	Description  *string
	Location     *string
	Status       *complaint.Status
	Priority     *complaint.Priority
}

// Update modifies mutable fields on a complaint. A status change is
// announced to the submitter.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (complaint.Complaint, error) {
	c, err := s.store.GetComplaint(ctx, id)
	if err != nil {
		return complaint.Complaint{}, err
	}
	previousStatus := c.Status

	if p.DepartmentID != nil {
		c.DepartmentID = strings.TrimSpace(*p.DepartmentID)
	}
	if p.TypeID != nil {
		c.TypeID = strings.TrimSpace(*p.TypeID)
	}
	if p.Subject != nil {
		trimmed := strings.TrimSpace(*p.Subject)
		if trimmed == "" {
			return complaint.Complaint{}, fmt.Errorf("subject cannot be empty")
		}
		c.Subject = trimmed
	}
	if p.Description != nil {
		c.Description = strings.TrimSpace(*p.Description)
	}
	if p.Location != nil {
		c.Location = strings.TrimSpace(*p.Location)
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return complaint.Complaint{}, fmt.Errorf("invalid status %q", *p.Status)
		}
		c.Status = *p.Status
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return complaint.Complaint{}, fmt.Errorf("invalid priority %q", *p.Priority)
		}
		c.Priority = *p.Priority
	}

	c, err = s.store.UpdateComplaint(ctx, c)
	if err != nil {
		return complaint.Complaint{}, err
	}
	s.log.WithField("complaint_id", c.ID).Info("complaint updated")

	if c.Status != previousStatus {
		s.notify(ctx, c.SubmitterID, "complaint_status_changed",
			fmt.Sprintf("Your complaint %q is now %s.", c.Subject, c.Status))
	}
	return c, nil
}

// Get returns one complaint by ID.
func (s *Service) Get(ctx context.Context, id string) (complaint.Complaint, error) {
	return s.store.GetComplaint(ctx, id)
}

// List returns complaints matching the filter.
func (s *Service) List(ctx context.Context, filter storage.ComplaintFilter) ([]complaint.Complaint, error) {
	return s.store.ListComplaints(ctx, filter)
}

// Delete removes a complaint.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteComplaint(ctx, id); err != nil {
		return err
	}
	s.log.WithField("complaint_id", id).Info("complaint deleted")
	return nil
}

// SaveAttachment writes an uploaded file under the uploads directory and
// returns the public path it will be served from.
func (s *Service) SaveAttachment(filename string, r io.Reader) (string, error) {
	if s.uploadsDir == "" {
		return "", fmt.Errorf("uploads are not configured")
	}
	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	// Discard any client-supplied directory components.
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		base = "upload"
	}
	stored := uuid.NewString() + "_" + base

	f, err := os.Create(filepath.Join(s.uploadsDir, stored))
	if err != nil {
		return "", fmt.Errorf("create attachment: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}

	s.log.WithField("file", stored).Debug("attachment stored")
	return path.Join("/uploads", stored), nil
}

func (s *Service) notify(ctx context.Context, userID, kind, message string) {
	if s.notifier == nil || userID == "" {
		return
	}
	if err := s.notifier.Notify(ctx, userID, kind, message); err != nil {
		s.log.WithError(err).Warn("notification delivery failed")
	}
}

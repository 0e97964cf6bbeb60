// Package feedback records submitter ratings on handled complaints.
package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/complaint"
	feedbackdomain "github.com/resolvedesk/resolvedesk/internal/app/domain/feedback"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// Service manages complaint feedback.
type Service struct {
	store      storage.FeedbackStore
	complaints storage.ComplaintStore
	log        *logger.Logger
}

// New constructs a feedback service.
func New(store storage.FeedbackStore, complaints storage.ComplaintStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("feedback")
	}
	return &Service{
		store:      store,
		complaints: complaints,
		log:        log,
	}
}

// Create records feedback on a resolved or closed complaint. A complaint
// takes one feedback record only.
func (s *Service) Create(ctx context.Context, complaintID, submitterID string, rating int, comment string) (feedbackdomain.Feedback, error) {
	complaintID = strings.TrimSpace(complaintID)
	submitterID = strings.TrimSpace(submitterID)

	if complaintID == "" {
		return feedbackdomain.Feedback{}, fmt.Errorf("complaint_id is required")
	}
	if submitterID == "" {
		return feedbackdomain.Feedback{}, fmt.Errorf("submitter_id is required")
	}
	if rating < 1 || rating > 5 {
		return feedbackdomain.Feedback{}, fmt.Errorf("rating must be between 1 and 5")
	}

	c, err := s.complaints.GetComplaint(ctx, complaintID)
	if err != nil {
		return feedbackdomain.Feedback{}, fmt.Errorf("complaint validation failed: %w", err)
	}
	if c.Status != complaint.StatusResolved && c.Status != complaint.StatusClosed {
		return feedbackdomain.Feedback{}, fmt.Errorf("feedback requires a resolved or closed complaint")
	}

	fb := feedbackdomain.Feedback{
		ComplaintID: complaintID,
		SubmitterID: submitterID,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
	}
	fb, err = s.store.CreateFeedback(ctx, fb)
	if err != nil {
		return feedbackdomain.Feedback{}, err
	}
	s.log.WithField("feedback_id", fb.ID).
		WithField("complaint_id", complaintID).
		Info("feedback recorded")
	return fb, nil
}

// Get returns one feedback record by ID.
func (s *Service) Get(ctx context.Context, id string) (feedbackdomain.Feedback, error) {
	return s.store.GetFeedback(ctx, id)
}

// GetByComplaint returns the feedback attached to a complaint.
func (s *Service) GetByComplaint(ctx context.Context, complaintID string) (feedbackdomain.Feedback, error) {
	return s.store.GetFeedbackByComplaint(ctx, complaintID)
}

// List returns feedback records, optionally filtered by organization and
// exact rating. A zero rating means any.
func (s *Service) List(ctx context.Context, organizationID string, rating int) ([]feedbackdomain.Feedback, error) {
	if rating < 0 || rating > 5 {
		return nil, fmt.Errorf("rating filter must be between 1 and 5")
	}
	return s.store.ListFeedback(ctx, strings.TrimSpace(organizationID), rating)
}

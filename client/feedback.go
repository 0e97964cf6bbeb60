package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/feedback"
)

// FeedbackParams carries the fields for rating a handled complaint.
type FeedbackParams struct {
	ComplaintID string `json:"complaint_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment,omitempty"`
}

// CreateFeedback rates a resolved or closed complaint.
func (c *Client) CreateFeedback(ctx context.Context, params FeedbackParams) (feedback.Feedback, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/feedback", params)
	if err != nil {
		return feedback.Feedback{}, err
	}
	var fb feedback.Feedback
	if err := decode(resp, &fb); err != nil {
		return feedback.Feedback{}, err
	}
	return fb, nil
}

// ListFeedback returns feedback records, optionally filtered by
// organization and exact rating (zero means any).
func (c *Client) ListFeedback(ctx context.Context, organizationID string, rating int) ([]feedback.Feedback, error) {
	q := url.Values{}
	if organizationID != "" {
		q.Set("organization_id", organizationID)
	}
	if rating > 0 {
		q.Set("rating", strconv.Itoa(rating))
	}
	path := "/api/feedback"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var records []feedback.Feedback
	if err := decode(resp, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FeedbackByComplaint returns the feedback left on a complaint, or nil
// when none has been submitted. Absence is a normal state here, not an
// error.
func (c *Client) FeedbackByComplaint(ctx context.Context, complaintID string) (*feedback.Feedback, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/complaints/"+complaintID+"/feedback", nil)
	if err != nil {
		return nil, err
	}

	var fb feedback.Feedback
	if err := decode(resp, &fb); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &fb, nil
}

package feedback

import "time"

// Feedback records a submitter's rating of how their complaint was
// handled. A complaint carries at most one feedback record.
type Feedback struct {
	ID          string    `json:"id"`
	ComplaintID string    `json:"complaint_id"`
	SubmitterID string    `json:"submitter_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

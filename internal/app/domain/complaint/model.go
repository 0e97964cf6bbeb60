package complaint

import "time"

// Status tracks a complaint through its lifecycle.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Priority orders complaints for triage.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Type categorises complaints within an organization, e.g. "Road damage"
// or "Billing dispute".
type Type struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Complaint is a citizen-reported issue routed to a department for
// resolution.
type Complaint struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	DepartmentID   string    `json:"department_id,omitempty"`
	TypeID         string    `json:"type_id,omitempty"`
	SubmitterID    string    `json:"submitter_id"`
	Subject        string    `json:"subject"`
	Description    string    `json:"description"`
	Location       string    `json:"location,omitempty"`
	Status         Status    `json:"status"`
	Priority       Priority  `json:"priority"`
	Attachments    []string  `json:"attachments,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

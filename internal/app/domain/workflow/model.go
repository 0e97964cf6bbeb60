package workflow

import "time"

// Status tracks the assignment workflow attached to a complaint.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusEscalated Status = "escalated"
	StatusCompleted Status = "completed"
)

// Valid reports whether the status is a known workflow state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusEscalated, StatusCompleted:
		return true
	}
	return false
}

// Step is one stage of the assignment chain. CompletedAt is nil while the
// step is outstanding.
type Step struct {
	Name         string     `json:"name"`
	DepartmentID string     `json:"department_id,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Workflow binds a complaint to the department and assignee responsible
// for resolving it. A complaint has at most one workflow.
type Workflow struct {
	ID           string    `json:"id"`
	ComplaintID  string    `json:"complaint_id"`
	DepartmentID string    `json:"department_id,omitempty"`
	AssigneeID   string    `json:"assignee_id,omitempty"`
	Status       Status    `json:"status"`
	Steps        []Step    `json:"steps,omitempty"`
	CurrentStep  int       `json:"current_step"`
	DueAt        time.Time `json:"due_at,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package workflows

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/complaint"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/workflow"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
)

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
	users []string
}

func (n *recordingNotifier) Notify(ctx context.Context, userID, kind, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	n.users = append(n.users, userID)
	return nil
}

func newTestService(t *testing.T) (*Service, *storage.Memory, *recordingNotifier) {
	t.Helper()
	mem := storage.NewMemory()
	notifier := &recordingNotifier{}
	return New(mem, mem, notifier, nil), mem, notifier
}

func fileComplaint(t *testing.T, mem *storage.Memory) complaint.Complaint {
	t.Helper()
	c, err := mem.CreateComplaint(context.Background(), complaint.Complaint{
		OrganizationID: "org1",
		SubmitterID:    "citizen1",
		Subject:        "Pothole",
		Status:         complaint.StatusOpen,
		Priority:       complaint.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("create complaint: %v", err)
	}
	return c
}

func TestCreateMovesComplaintInProgress(t *testing.T) {
	svc, mem, notifier := newTestService(t)
	c := fileComplaint(t, mem)

	wf, err := svc.Create(context.Background(), CreateParams{
		ComplaintID: c.ID,
		AssigneeID:  "agent1",
		Steps:       []workflow.Step{{Name: "triage"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if wf.Status != workflow.StatusActive {
		t.Fatalf("status = %s, want active", wf.Status)
	}
	if wf.DueAt.IsZero() {
		t.Fatal("DueAt not defaulted")
	}

	updated, _ := mem.GetComplaint(context.Background(), c.ID)
	if updated.Status != complaint.StatusInProgress {
		t.Fatalf("complaint status = %s, want in_progress", updated.Status)
	}
	if len(notifier.kinds) == 0 || notifier.kinds[0] != "workflow_assigned" {
		t.Fatalf("notifications = %v", notifier.kinds)
	}
}

func TestCreateRejectsSecondWorkflowForComplaint(t *testing.T) {
	svc, mem, _ := newTestService(t)
	c := fileComplaint(t, mem)

	if _, err := svc.Create(context.Background(), CreateParams{ComplaintID: c.ID}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateParams{ComplaintID: c.ID}); err == nil {
		t.Fatal("second workflow for the same complaint must fail")
	}
}

func TestAdvanceStepCompletesWorkflowAndResolvesComplaint(t *testing.T) {
	svc, mem, notifier := newTestService(t)
	c := fileComplaint(t, mem)

	wf, err := svc.Create(context.Background(), CreateParams{
		ComplaintID: c.ID,
		Steps:       []workflow.Step{{Name: "triage"}, {Name: "fix"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wf, err = svc.AdvanceStep(context.Background(), wf.ID)
	if err != nil {
		t.Fatalf("first AdvanceStep: %v", err)
	}
	if wf.CurrentStep != 1 || wf.Status != workflow.StatusActive {
		t.Fatalf("after first advance: step=%d status=%s", wf.CurrentStep, wf.Status)
	}
	if wf.Steps[0].CompletedAt == nil {
		t.Fatal("first step not marked completed")
	}

	wf, err = svc.AdvanceStep(context.Background(), wf.ID)
	if err != nil {
		t.Fatalf("second AdvanceStep: %v", err)
	}
	if wf.Status != workflow.StatusCompleted {
		t.Fatalf("status = %s, want completed", wf.Status)
	}

	resolved, _ := mem.GetComplaint(context.Background(), c.ID)
	if resolved.Status != complaint.StatusResolved {
		t.Fatalf("complaint status = %s, want resolved", resolved.Status)
	}

	found := false
	for i, kind := range notifier.kinds {
		if kind == "complaint_status_changed" && notifier.users[i] == "citizen1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("submitter not notified of resolution: %v", notifier.kinds)
	}

	if _, err := svc.AdvanceStep(context.Background(), wf.ID); err == nil {
		t.Fatal("advancing a completed workflow must fail")
	}
}

func TestEscalateOverdue(t *testing.T) {
	svc, mem, notifier := newTestService(t)
	c := fileComplaint(t, mem)

	wf, err := svc.Create(context.Background(), CreateParams{
		ComplaintID: c.ID,
		AssigneeID:  "agent1",
		DueAt:       time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, err := svc.EscalateOverdue(context.Background())
	if err != nil {
		t.Fatalf("EscalateOverdue: %v", err)
	}
	if count != 1 {
		t.Fatalf("escalated %d, want 1", count)
	}

	wf, _ = svc.Get(context.Background(), wf.ID)
	if wf.Status != workflow.StatusEscalated {
		t.Fatalf("status = %s, want escalated", wf.Status)
	}

	// Escalated workflows are not swept twice.
	count, err = svc.EscalateOverdue(context.Background())
	if err != nil || count != 0 {
		t.Fatalf("second sweep = %d, %v", count, err)
	}

	found := false
	for _, kind := range notifier.kinds {
		if kind == "workflow_escalated" {
			found = true
		}
	}
	if !found {
		t.Fatalf("assignee not notified: %v", notifier.kinds)
	}
}

func TestGetByComplaintReturnsNotFoundForUnknown(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetByComplaint(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
}

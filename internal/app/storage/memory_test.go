package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/complaint"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/organization"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/workflow"
)

func TestOrganizationCRUD(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	org, err := mem.CreateOrganization(ctx, organization.Organization{Name: "City of Springfield"})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	if org.ID == "" || org.CreatedAt.IsZero() {
		t.Fatalf("org = %+v", org)
	}

	org.Name = "Springfield"
	updated, err := mem.UpdateOrganization(ctx, org)
	if err != nil {
		t.Fatalf("UpdateOrganization: %v", err)
	}
	if updated.Name != "Springfield" {
		t.Fatalf("name = %q", updated.Name)
	}
	if !updated.CreatedAt.Equal(org.CreatedAt) {
		t.Fatal("CreatedAt must survive updates")
	}

	if err := mem.DeleteOrganization(ctx, org.ID); err != nil {
		t.Fatalf("DeleteOrganization: %v", err)
	}
	if _, err := mem.GetOrganization(ctx, org.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateUserEnforcesUniqueEmail(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	if _, err := mem.CreateUser(ctx, user.User{Email: "jo@example.org"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := mem.CreateUser(ctx, user.User{Email: "JO@example.org"}); err == nil {
		t.Fatal("duplicate email must fail regardless of case")
	}
}

func TestListComplaintsFiltersAndPaginates(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := mem.CreateComplaint(ctx, complaint.Complaint{
			OrganizationID: "org1",
			SubmitterID:    "u1",
			Subject:        "a",
			Status:         complaint.StatusOpen,
		}); err != nil {
			t.Fatalf("CreateComplaint: %v", err)
		}
	}
	if _, err := mem.CreateComplaint(ctx, complaint.Complaint{
		OrganizationID: "org2",
		SubmitterID:    "u1",
		Subject:        "b",
		Status:         complaint.StatusResolved,
	}); err != nil {
		t.Fatalf("CreateComplaint: %v", err)
	}

	byOrg, err := mem.ListComplaints(ctx, ComplaintFilter{OrganizationID: "org1"})
	if err != nil {
		t.Fatalf("ListComplaints: %v", err)
	}
	if len(byOrg) != 3 {
		t.Fatalf("org1 complaints = %d", len(byOrg))
	}

	byStatus, err := mem.ListComplaints(ctx, ComplaintFilter{Status: complaint.StatusResolved})
	if err != nil {
		t.Fatalf("ListComplaints: %v", err)
	}
	if len(byStatus) != 1 {
		t.Fatalf("resolved complaints = %d", len(byStatus))
	}

	paged, err := mem.ListComplaints(ctx, ComplaintFilter{Page: 2, Limit: 3})
	if err != nil {
		t.Fatalf("ListComplaints: %v", err)
	}
	if len(paged) != 1 {
		t.Fatalf("page 2 = %d items, want 1", len(paged))
	}

	empty, err := mem.ListComplaints(ctx, ComplaintFilter{Page: 5, Limit: 3})
	if err != nil {
		t.Fatalf("ListComplaints: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("out-of-range page = %d items", len(empty))
	}
}

func TestWorkflowUniquePerComplaint(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	if _, err := mem.CreateWorkflow(ctx, workflow.Workflow{ComplaintID: "c1", Status: workflow.StatusActive}); err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}
	if _, err := mem.CreateWorkflow(ctx, workflow.Workflow{ComplaintID: "c1", Status: workflow.StatusActive}); err == nil {
		t.Fatal("second workflow for a complaint must fail")
	}

	if _, err := mem.GetWorkflowByComplaint(ctx, "c1"); err != nil {
		t.Fatalf("GetWorkflowByComplaint: %v", err)
	}
	if _, err := mem.GetWorkflowByComplaint(ctx, "c2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListOverdueWorkflowsSkipsTerminalStates(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	mem.CreateWorkflow(ctx, workflow.Workflow{ComplaintID: "c1", Status: workflow.StatusActive, DueAt: past})
	mem.CreateWorkflow(ctx, workflow.Workflow{ComplaintID: "c2", Status: workflow.StatusEscalated, DueAt: past})
	mem.CreateWorkflow(ctx, workflow.Workflow{ComplaintID: "c3", Status: workflow.StatusCompleted, DueAt: past})
	mem.CreateWorkflow(ctx, workflow.Workflow{ComplaintID: "c4", Status: workflow.StatusActive, DueAt: time.Now().Add(time.Hour)})

	overdue, err := mem.ListOverdueWorkflows(ctx, time.Now())
	if err != nil {
		t.Fatalf("ListOverdueWorkflows: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ComplaintID != "c1" {
		t.Fatalf("overdue = %+v", overdue)
	}
}

func TestMutationsDoNotLeakSlices(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	c, _ := mem.CreateComplaint(ctx, complaint.Complaint{
		OrganizationID: "org1",
		SubmitterID:    "u1",
		Subject:        "a",
		Attachments:    []string{"/uploads/one.jpg"},
	})

	got, _ := mem.GetComplaint(ctx, c.ID)
	got.Attachments[0] = "mutated"

	again, _ := mem.GetComplaint(ctx, c.ID)
	if again.Attachments[0] != "/uploads/one.jpg" {
		t.Fatal("stored attachments were mutated through a returned slice")
	}
}

package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/complaint"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return New(mem, mem, nil), mem
}

func resolvedComplaint(t *testing.T, mem *storage.Memory) complaint.Complaint {
	t.Helper()
	c, err := mem.CreateComplaint(context.Background(), complaint.Complaint{
		OrganizationID: "org1",
		SubmitterID:    "citizen1",
		Subject:        "Pothole",
		Status:         complaint.StatusResolved,
		Priority:       complaint.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("create complaint: %v", err)
	}
	return c
}

func TestCreateRecordsFeedback(t *testing.T) {
	svc, mem := newTestService(t)
	c := resolvedComplaint(t, mem)

	fb, err := svc.Create(context.Background(), c.ID, "citizen1", 4, "Handled quickly")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if fb.Rating != 4 || fb.ComplaintID != c.ID {
		t.Fatalf("fb = %+v", fb)
	}

	got, err := svc.GetByComplaint(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetByComplaint: %v", err)
	}
	if got.ID != fb.ID {
		t.Fatalf("got %s, want %s", got.ID, fb.ID)
	}
}

func TestCreateRejectsRatingOutOfRange(t *testing.T) {
	svc, mem := newTestService(t)
	c := resolvedComplaint(t, mem)

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Create(context.Background(), c.ID, "citizen1", rating, ""); err == nil {
			t.Fatalf("rating %d must fail", rating)
		}
	}
}

func TestCreateRequiresResolvedOrClosedComplaint(t *testing.T) {
	svc, mem := newTestService(t)
	c, _ := mem.CreateComplaint(context.Background(), complaint.Complaint{
		OrganizationID: "org1",
		SubmitterID:    "citizen1",
		Subject:        "Pothole",
		Status:         complaint.StatusOpen,
		Priority:       complaint.PriorityMedium,
	})

	if _, err := svc.Create(context.Background(), c.ID, "citizen1", 3, ""); err == nil {
		t.Fatal("feedback on open complaint must fail")
	}
}

func TestCreateRejectsSecondFeedback(t *testing.T) {
	svc, mem := newTestService(t)
	c := resolvedComplaint(t, mem)

	if _, err := svc.Create(context.Background(), c.ID, "citizen1", 5, ""); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), c.ID, "citizen1", 1, ""); err == nil {
		t.Fatal("second feedback for the same complaint must fail")
	}
}

func TestGetByComplaintAbsent(t *testing.T) {
	svc, mem := newTestService(t)
	c := resolvedComplaint(t, mem)

	_, err := svc.GetByComplaint(context.Background(), c.ID)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListFiltersByRating(t *testing.T) {
	svc, mem := newTestService(t)
	first := resolvedComplaint(t, mem)
	second := resolvedComplaint(t, mem)

	if _, err := svc.Create(context.Background(), first.ID, "citizen1", 5, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), second.ID, "citizen1", 2, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := svc.List(context.Background(), "org1", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d", len(all))
	}

	fives, err := svc.List(context.Background(), "org1", 5)
	if err != nil {
		t.Fatalf("List(rating=5): %v", err)
	}
	if len(fives) != 1 || fives[0].Rating != 5 {
		t.Fatalf("fives = %+v", fives)
	}
}

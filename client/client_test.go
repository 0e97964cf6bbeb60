package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/workflow"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *MemoryStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := NewMemoryStore()
	return New(Config{BaseURL: server.URL, Sessions: store}), store
}

func TestEnsureBearerAttachesSessionToken(t *testing.T) {
	var got string
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	store.Set(Session{Token: "tok-123"})

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want %q", got, "Bearer tok-123")
	}
}

func TestEnsureBearerNeverDoublePrefixes(t *testing.T) {
	var got string
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	// A token persisted by Login already carries the prefix.
	store.Set(Session{Token: "Bearer tok-123"})

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want single bearer prefix", got)
	}
}

func TestEnsureBearerDoesNotOverrideExistingHeader(t *testing.T) {
	store := NewMemoryStore()
	store.Set(Session{Token: "session-token"})
	c := New(Config{BaseURL: "http://example.invalid", Sessions: store})

	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/api/health", nil)
	req.Header.Set("Authorization", "Bearer explicit")
	c.ensureBearer(req)

	if got := req.Header.Get("Authorization"); got != "Bearer explicit" {
		t.Fatalf("Authorization = %q, want existing header preserved", got)
	}
	if values := req.Header.Values("Authorization"); len(values) != 1 {
		t.Fatalf("Authorization header set %d times, want 1", len(values))
	}
}

func TestUnauthorizedTearsDownSessionAndFiresHookOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer server.Close()

	store := NewMemoryStore()
	store.Set(Session{Token: "stale"})

	hookCalls := 0
	c := New(Config{
		BaseURL:        server.URL,
		Sessions:       store,
		OnUnauthorized: func() { hookCalls++ },
	})

	for i := 0; i < 3; i++ {
		if err := c.Health(context.Background()); err == nil {
			t.Fatal("expected error from 401 response")
		}
	}

	if _, ok := store.Get(); ok {
		t.Fatal("session should be cleared after 401")
	}
	if hookCalls != 1 {
		t.Fatalf("OnUnauthorized called %d times, want 1", hookCalls)
	}
}

func TestUnauthorizedOnLoginDoesNotFireHook(t *testing.T) {
	hookCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid email or password"}`))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, OnUnauthorized: func() { hookCalls++ }})

	_, err := c.Login(context.Background(), "a@b.c", "wrong", "")
	if err == nil {
		t.Fatal("expected login failure")
	}
	if !strings.Contains(err.Error(), "invalid email or password") {
		t.Fatalf("error = %q, want server message surfaced", err)
	}
	if hookCalls != 0 {
		t.Fatalf("OnUnauthorized called %d times during login, want 0", hookCalls)
	}
}

func TestLoginStoresAssembledSession(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "issued-token",
			"user": user.User{
				ID:    "u1",
				Email: "jo@example.org",
				Role:  user.RoleAgent,
			},
		})
	})

	session, err := c.Login(context.Background(), "jo@example.org", "pw123456", "org-42")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token != "Bearer issued-token" {
		t.Fatalf("session token = %q, want bearer-prefixed", session.Token)
	}
	if session.User.ID != "u1" || session.User.Role != user.RoleAgent {
		t.Fatalf("session user = %+v", session.User)
	}
	if session.User.OrganizationID != "org-42" {
		t.Fatalf("organization = %q, want caller-supplied org-42", session.User.OrganizationID)
	}
	if session.CreatedAt.IsZero() {
		t.Fatal("session CreatedAt not set")
	}

	stored, ok := store.Get()
	if !ok || stored.Token != "Bearer issued-token" {
		t.Fatalf("stored session = %+v, ok=%v", stored, ok)
	}
}

func TestLogoutClearsSessionEvenWhenServerFails(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	})
	store.Set(Session{Token: "tok"})

	if err := c.Logout(context.Background()); err == nil {
		t.Fatal("expected error from failed logout")
	}
	if _, ok := store.Get(); ok {
		t.Fatal("session must be cleared locally regardless of server answer")
	}
}

func TestWorkflowForComplaintReturnsNilOn404(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"workflow for complaint c1: record not found"}`))
	})

	wf, err := c.WorkflowForComplaint(context.Background(), "c1")
	if err != nil {
		t.Fatalf("absent workflow should not be an error, got %v", err)
	}
	if wf != nil {
		t.Fatalf("wf = %+v, want nil", wf)
	}
}

func TestWorkflowForComplaintReturnsValue(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(workflow.Workflow{ID: "w1", ComplaintID: "c1"})
	})

	wf, err := c.WorkflowForComplaint(context.Background(), "c1")
	if err != nil {
		t.Fatalf("WorkflowForComplaint: %v", err)
	}
	if wf == nil || wf.ID != "w1" {
		t.Fatalf("wf = %+v", wf)
	}
}

func TestFeedbackByComplaintReturnsNilOn404(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"feedback for complaint c1: record not found"}`))
	})

	fb, err := c.FeedbackByComplaint(context.Background(), "c1")
	if err != nil {
		t.Fatalf("absent feedback should not be an error, got %v", err)
	}
	if fb != nil {
		t.Fatalf("fb = %+v, want nil", fb)
	}
}

func TestListDepartmentsMapsForbiddenToPermissionMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"insufficient permissions"}`))
	})

	_, err := c.ListDepartments(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "you do not have permission to view departments" {
		t.Fatalf("error = %q", err)
	}
}

func TestErrorPolicyFallsBackToStatusMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	})

	err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "request failed with status 502") {
		t.Fatalf("error = %q", err)
	}
}

func TestCreateComplaintWithAttachmentsSendsMultipart(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		if got := r.FormValue("subject"); got != "Pothole on Main St" {
			t.Fatalf("subject = %q", got)
		}
		files := r.MultipartForm.File["attachments"]
		if len(files) != 1 || files[0].Filename != "photo.jpg" {
			t.Fatalf("attachments = %+v", files)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("Authorization = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"c1","subject":"Pothole on Main St"}`))
	})
	store.Set(Session{Token: "tok"})

	created, err := c.CreateComplaintWithAttachments(context.Background(),
		ComplaintParams{OrganizationID: "org1", Subject: "Pothole on Main St"},
		[]Attachment{{Filename: "photo.jpg", Reader: strings.NewReader("jpegdata")}})
	if err != nil {
		t.Fatalf("CreateComplaintWithAttachments: %v", err)
	}
	if created.ID != "c1" {
		t.Fatalf("created = %+v", created)
	}
}

package notifications

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/notification"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
)

func TestNotifyRecordsNotification(t *testing.T) {
	mem := storage.NewMemory()
	svc := New(mem, nil, nil)

	if err := svc.Notify(context.Background(), "u1", "complaint_created", "Your complaint was received"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	list, err := svc.List(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Kind != "complaint_created" {
		t.Fatalf("list = %+v", list)
	}
}

func TestNotifyValidation(t *testing.T) {
	svc := New(storage.NewMemory(), nil, nil)

	if err := svc.Notify(context.Background(), "", "kind", "message"); err == nil {
		t.Fatal("empty user must fail")
	}
	if err := svc.Notify(context.Background(), "u1", "kind", "  "); err == nil {
		t.Fatal("blank message must fail")
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	mem := storage.NewMemory()
	svc := New(mem, nil, nil)

	if err := svc.Notify(context.Background(), "u1", "k", "m"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	list, _ := svc.List(context.Background(), "u1", false)

	n, err := svc.MarkRead(context.Background(), list[0].ID)
	if err != nil || !n.Read {
		t.Fatalf("MarkRead: n=%+v err=%v", n, err)
	}
	again, err := svc.MarkRead(context.Background(), list[0].ID)
	if err != nil || !again.Read {
		t.Fatalf("second MarkRead: n=%+v err=%v", again, err)
	}

	unread, _ := svc.List(context.Background(), "u1", true)
	if len(unread) != 0 {
		t.Fatalf("unread = %+v", unread)
	}
}

func TestHubPublishReachesConnectedClient(t *testing.T) {
	hub := NewHub(nil)
	svc := New(storage.NewMemory(), hub, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, "u1")
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The upgrade handshake races with Publish; wait for registration.
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.RLock()
		registered := len(hub.conns["u1"]) > 0
		hub.mu.RUnlock()
		if registered {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := svc.Notify(context.Background(), "u1", "workflow_escalated", "Your complaint was escalated"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got notification.Notification
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Kind != "workflow_escalated" || got.UserID != "u1" {
		t.Fatalf("got = %+v", got)
	}
}

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resolvedesk/resolvedesk/internal/app/services/users"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
)

func newTestService(t *testing.T) (*Service, *users.Service) {
	t.Helper()
	mem := storage.NewMemory()
	userService := users.New(mem, nil)
	return New(mem, mem, []byte("test-secret"), time.Hour, nil), userService
}

func createUser(t *testing.T, userService *users.Service, email, password string) {
	t.Helper()
	_, err := userService.Create(context.Background(), users.CreateParams{
		FirstName: "Pat",
		LastName:  "Doe",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func TestLoginIssuesValidatableToken(t *testing.T) {
	svc, userService := newTestService(t)
	createUser(t, userService, "pat@example.org", "password123")

	token, u, err := svc.Login(context.Background(), "pat@example.org", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if u.Email != "pat@example.org" {
		t.Fatalf("user = %+v", u)
	}

	validated, err := svc.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if validated.ID != u.ID {
		t.Fatalf("validated user %s, want %s", validated.ID, u.ID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, userService := newTestService(t)
	createUser(t, userService, "pat@example.org", "password123")

	_, _, err := svc.Login(context.Background(), "pat@example.org", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "nobody@example.org", "password123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginIsCaseInsensitiveOnEmail(t *testing.T) {
	svc, userService := newTestService(t)
	createUser(t, userService, "pat@example.org", "password123")

	if _, _, err := svc.Login(context.Background(), "PAT@Example.ORG", "password123"); err != nil {
		t.Fatalf("Login with upper-case email: %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, userService := newTestService(t)
	createUser(t, userService, "pat@example.org", "password123")

	token, _, err := svc.Login(context.Background(), "pat@example.org", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Validate after logout: %v, want ErrInvalidCredentials", err)
	}

	// Logging out twice is fine.
	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Validate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateRejectsExpiredSession(t *testing.T) {
	mem := storage.NewMemory()
	userService := users.New(mem, nil)
	// Negative TTL falls back to the default in New, so construct with a
	// tiny positive TTL instead.
	svc := New(mem, mem, []byte("test-secret"), time.Millisecond, nil)
	createUser(t, userService, "pat@example.org", "password123")

	token, _, err := svc.Login(context.Background(), "pat@example.org", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Validate on expired session: %v, want ErrInvalidCredentials", err)
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	mem := storage.NewMemory()
	userService := users.New(mem, nil)
	svc := New(mem, mem, []byte("test-secret"), time.Millisecond, nil)
	createUser(t, userService, "pat@example.org", "password123")

	if _, _, err := svc.Login(context.Background(), "pat@example.org", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if err := svc.PurgeExpiredSessions(context.Background()); err != nil {
		t.Fatalf("PurgeExpiredSessions: %v", err)
	}
}

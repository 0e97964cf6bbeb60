package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
)

// RegisterParams carries the fields for self-registration.
type RegisterParams struct {
	OrganizationID string `json:"organization_id,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

// Register creates a citizen account. It does not log the user in.
func (c *Client) Register(ctx context.Context, params RegisterParams) (user.User, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/register", params)
	if err != nil {
		return user.User{}, err
	}
	var u user.User
	if err := decode(resp, &u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// Login authenticates and stores the resulting session. The token is
// persisted with its bearer prefix exactly once, and organizationID,
// when supplied, overrides the organization reported by the server.
// Subsequent requests carry the token automatically.
func (c *Client) Login(ctx context.Context, email, password, organizationID string) (Session, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Session{}, err
	}

	var payload struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}
	if err := decode(resp, &payload); err != nil {
		return Session{}, err
	}

	u := payload.User
	if organizationID != "" {
		u.OrganizationID = organizationID
	}
	token := payload.Token
	if !strings.HasPrefix(token, "Bearer ") {
		token = "Bearer " + token
	}

	session := Session{
		Token:     token,
		User:      u,
		CreatedAt: time.Now(),
	}
	c.sessions.Set(session)
	return session, nil
}

// Logout revokes the session server-side and always clears it locally,
// even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.sessions.Delete()

	resp, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// CurrentUser returns the account behind the active session.
func (c *Client) CurrentUser(ctx context.Context) (user.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return user.User{}, err
	}
	var u user.User
	if err := decode(resp, &u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

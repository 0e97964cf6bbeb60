// Package client is the Go API client for the complaint platform. It
// wraps the REST endpoints, attaches the session bearer token, and tears
// the session down when the server rejects it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config configures a Client.
type Config struct {
	// BaseURL is the server root, e.g. "https://api.example.org".
	BaseURL string
	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client
	// Sessions persists the login session. Nil uses an in-memory store.
	Sessions Store
	// OnUnauthorized runs after the session has been torn down because
	// the server answered 401. Typically used to redirect to login.
	OnUnauthorized func()
}

// Client calls the complaint platform REST API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	sessions       Store
	onUnauthorized func()
}

// New creates an API client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = NewMemoryStore()
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     httpClient,
		sessions:       sessions,
		onUnauthorized: cfg.OnUnauthorized,
	}
}

// Session returns the current session, or false when logged out.
func (c *Client) Session() (Session, bool) {
	return c.sessions.Get()
}

// do executes a JSON request against the API. The session bearer token,
// when present, is attached exactly once.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.ensureBearer(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && path != "/api/auth/login" {
		c.teardownSession()
	}
	return resp, nil
}

// ensureBearer attaches the session token unless an Authorization header
// is already present. The bearer prefix is added at most once, so a
// stored token that already carries it is never double-prefixed.
func (c *Client) ensureBearer(req *http.Request) {
	if req.Header.Get("Authorization") != "" {
		return
	}
	session, ok := c.sessions.Get()
	if !ok || session.Token == "" {
		return
	}
	token := session.Token
	if !strings.HasPrefix(token, "Bearer ") {
		token = "Bearer " + token
	}
	req.Header.Set("Authorization", token)
}

// teardownSession drops the stored session and fires the unauthorized
// hook. The hook runs only when a session was actually present, so a
// burst of concurrent 401s reports once.
func (c *Client) teardownSession() {
	if _, ok := c.sessions.Get(); !ok {
		return
	}
	c.sessions.Delete()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// decode reads a JSON response into target. Error responses become Go
// errors carrying the server's message.
func decode(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if target == nil {
		_, err := io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// apiError extracts the server's error message from the response body,
// falling back to a status-code message when the body is not the usual
// {"error": ...} shape.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode}
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Health checks the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

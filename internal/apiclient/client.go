// Package apiclient is a thin HTTP client for the jobtrack API. The board
// coordinator uses it as its status updater; the CLI uses it for everything
// else.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobtrack/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to one jobtrack server. Token is set after Login or Register
// and attached as a bearer credential on every authenticated call.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetToken installs a bearer token for authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token, empty if not logged in.
func (c *Client) Token() string {
	return c.token
}

// do runs one request and decodes the JSON response into out (when out is
// non-nil). Non-2xx responses are returned as *APIError with the server's
// error message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Register creates an account and installs the returned token.
func (c *Client) Register(ctx context.Context, req *types.CreateUserRequest) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Login authenticates and installs the returned token.
func (c *Client) Login(ctx context.Context, req *types.LoginRequest) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// ListJobs returns the caller's applications, newest first.
func (c *Client) ListJobs(ctx context.Context) ([]types.Job, error) {
	var jobs []types.Job
	if err := c.do(ctx, http.MethodGet, "/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// CreateJob records a new application.
func (c *Client) CreateJob(ctx context.Context, req *types.CreateJobRequest) (*types.Job, error) {
	var job types.Job
	if err := c.do(ctx, http.MethodPost, "/jobs", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob patches the metadata fields of an application.
func (c *Client) UpdateJob(ctx context.Context, id uuid.UUID, req *types.UpdateJobRequest) (*types.Job, error) {
	var job types.Job
	if err := c.do(ctx, http.MethodPatch, "/jobs/"+id.String(), req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob removes an application.
func (c *Client) DeleteJob(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/jobs/"+id.String(), nil, nil)
}

// UpdateJobStatus moves an application to a new status and returns the
// status the server settled on. The board coordinator confirms or reverts
// its optimistic state with this value.
func (c *Client) UpdateJobStatus(ctx context.Context, id uuid.UUID, status types.JobStatus) (types.JobStatus, error) {
	req := types.UpdateJobStatusRequest{Status: string(status)}
	var resp types.UpdateJobStatusResponse
	if err := c.do(ctx, http.MethodPatch, "/jobs/"+id.String()+"/status", &req, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

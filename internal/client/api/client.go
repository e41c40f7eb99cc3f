// Package api implements the HTTP client for the task service. The session
// credential lives in a cookie jar, so the client carries it exactly the way
// a browser would.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/cuadratic/tasklist/internal/common"
	"github.com/cuadratic/tasklist/internal/models"
)

// Client describes the task service operations the synchronizer and the CLI
// depend on.
type Client interface {
	Login(ctx context.Context, username string) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (string, error)
	ListTasks(ctx context.Context, username string) ([]models.Task, error)
	AddTask(ctx context.Context, title string) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	UpdateTaskState(ctx context.Context, id int64, state models.TaskState) error
	RenameTask(ctx context.Context, id int64, title string) error
	Ping(ctx context.Context) error
}

// HTTPClient talks JSON over HTTP to the task server.
type HTTPClient struct {
	baseURL string
	delay   time.Duration
	http    *http.Client
}

// NewHTTPClient builds a client for the given base URL. The delay is passed
// through to the server on task operations (the server clamps it).
func NewHTTPClient(baseURL string, delay time.Duration) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		baseURL: baseURL,
		delay:   delay,
		http:    &http.Client{Jar: jar},
	}, nil
}

func (c *HTTPClient) delayMillis() int64 {
	return c.delay.Milliseconds()
}

// do issues one request and decodes the response into out (if non-nil).
// Non-2xx statuses are translated into the shared error taxonomy.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decoding response: %w", err)
			}
		}
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrorValidation, serverMessage(resp.Body))
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	default:
		return fmt.Errorf("%w: server returned %d", common.ErrorInternal, resp.StatusCode)
	}
}

// serverMessage extracts the message field from an error response body.
func serverMessage(body io.Reader) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&e); err != nil || e.Message == "" {
		return "bad request"
	}
	return e.Message
}

func (c *HTTPClient) Login(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"username": username}, nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", struct{}{}, nil)
}

func (c *HTTPClient) Whoami(ctx context.Context) (string, error) {
	var out struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/whoami", nil, &out); err != nil {
		return "", err
	}
	return out.Username, nil
}

func (c *HTTPClient) ListTasks(ctx context.Context, username string) ([]models.Task, error) {
	q := url.Values{}
	q.Set("user", username)
	if ms := c.delayMillis(); ms > 0 {
		q.Set("delay", strconv.FormatInt(ms, 10))
	}

	var out []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AddTask(ctx context.Context, title string) (*models.Task, error) {
	var out models.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks",
		map[string]any{"title": title, "delay": c.delayMillis()}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/api/tasks/delete",
		map[string]any{"id": id, "delay": c.delayMillis()}, nil)
}

func (c *HTTPClient) UpdateTaskState(ctx context.Context, id int64, state models.TaskState) error {
	return c.do(ctx, http.MethodPost, "/api/tasks/state",
		map[string]any{"id": id, "state": state}, nil)
}

func (c *HTTPClient) RenameTask(ctx context.Context, id int64, title string) error {
	return c.do(ctx, http.MethodPost, "/api/tasks/title",
		map[string]any{"id": id, "title": title}, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

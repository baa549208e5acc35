// Package todoist is the task sink: a Todoist REST v2 client that
// creates, updates and lists tasks. Failures are surfaced, not retried.
package todoist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/dt-pm-tools/ticket2task/internal/compile"
	"github.com/dt-pm-tools/ticket2task/internal/config"
)

const defaultBaseURL = "https://api.todoist.com/rest/v2"

// RemoteTask is the slice of a Todoist task we care about.
type RemoteTask struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Labels   []string `json:"labels,omitempty"`
	Priority int      `json:"priority,omitempty"`
	URL      string   `json:"url,omitempty"`
}

// Client is a Todoist REST v2 client.
type Client struct {
	http *resty.Client
}

// NewClient creates a Todoist client from the given config.
func NewClient(cfg config.Config) *Client {
	baseURL := cfg.TodoistURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	http := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(cfg.TodoistToken).
		SetHeader("Content-Type", "application/json")
	return &Client{http: http}
}

// CreateTask creates a new task from the payload and returns the remote task.
func (c *Client) CreateTask(ctx context.Context, task compile.Task) (*RemoteTask, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(task).
		Post("/tasks")
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("Todoist API returned %d: %s", resp.StatusCode(), resp.String())
	}

	var remote RemoteTask
	if err := json.Unmarshal(resp.Body(), &remote); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &remote, nil
}

// updatePayload carries only the fields being changed. Every field is
// omitempty: an explicit empty content is invalid on the Todoist side,
// and an empty description would clear the remote one.
type updatePayload struct {
	Content     string   `json:"content,omitempty"`
	Description string   `json:"description,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Priority    int      `json:"priority,omitempty"`
}

// UpdateTask updates the task identified by id with the non-empty
// payload fields; unset fields are left untouched remotely.
func (c *Client) UpdateTask(ctx context.Context, id string, task compile.Task) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(updatePayload{
			Content:     task.Content,
			Description: task.Description,
			DueDate:     task.DueDate,
			Labels:      task.Labels,
			Priority:    task.Priority,
		}).
		Post("/tasks/" + id)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("Todoist API returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// ListTasks returns the active tasks.
func (c *Client) ListTasks(ctx context.Context) ([]RemoteTask, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/tasks")
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("Todoist API returned %d: %s", resp.StatusCode(), resp.String())
	}

	var tasks []RemoteTask
	if err := json.Unmarshal(resp.Body(), &tasks); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return tasks, nil
}

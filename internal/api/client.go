// Package api is the HTTP transport to a schedge server: request/response
// calls plus a reconnecting push channel of full-state snapshots.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/schedge-app/schedge/internal/domain"
	"github.com/schedge-app/schedge/internal/wire"
)

// Client talks to a schedge server. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL (no trailing slash
// needed).
func NewClient(baseURL string) *Client {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string { return c.baseURL }

// do issues one request and decodes the response envelope. A non-ok
// status becomes a RequestError carrying the server's message; result,
// when non-nil, receives the unmarshalled payload.
func (c *Client) do(ctx context.Context, op, method, path string, body, result any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var envelope wire.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if envelope.Status != "ok" {
		return &domain.RequestError{Op: op, Message: envelope.Message}
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("%s: decode result: %w", op, err)
		}
	}
	return nil
}

func userPath(userID int64, suffix string) string {
	return fmt.Sprintf("/api/v0/user/%d%s", userID, suffix)
}

// State fetches the full snapshot: tasks, slots and user id.
func (c *Client) State(ctx context.Context, userID int64) (domain.State, error) {
	var ws wire.State
	if err := c.do(ctx, "fetch state", http.MethodGet, userPath(userID, "/state"), nil, &ws); err != nil {
		return domain.State{}, err
	}
	return wire.DecodeState(ws)
}

// Tasks fetches all tasks for the user.
func (c *Client) Tasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	var wts []wire.Task
	if err := c.do(ctx, "fetch tasks", http.MethodGet, userPath(userID, "/task"), nil, &wts); err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(wts))
	for _, wt := range wts {
		t, err := wire.DecodeTask(wt)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Task fetches a single task.
func (c *Client) Task(ctx context.Context, userID int64, taskID string) (domain.Task, error) {
	var wt wire.Task
	if err := c.do(ctx, "fetch task", http.MethodGet, userPath(userID, "/task/"+taskID), nil, &wt); err != nil {
		return nil, err
	}
	return wire.DecodeTask(wt)
}

// CreateTask stores a new task and returns the server's copy.
func (c *Client) CreateTask(ctx context.Context, userID int64, t domain.Task) (domain.Task, error) {
	wt, err := wire.EncodeTask(t)
	if err != nil {
		return nil, err
	}
	var stored wire.Task
	if err := c.do(ctx, "create task", http.MethodPost, userPath(userID, "/task"), wt, &stored); err != nil {
		return nil, err
	}
	return wire.DecodeTask(stored)
}

// UpdateTask replaces a task and returns the server's copy, including the
// server-assigned nonce.
func (c *Client) UpdateTask(ctx context.Context, userID int64, t domain.Task) (domain.Task, error) {
	wt, err := wire.EncodeTask(t)
	if err != nil {
		return nil, err
	}
	var stored wire.Task
	if err := c.do(ctx, "update task", http.MethodPut, userPath(userID, "/task/"+t.Base().ID), wt, &stored); err != nil {
		return nil, err
	}
	return wire.DecodeTask(stored)
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, userID int64, taskID string) error {
	return c.do(ctx, "delete task", http.MethodDelete, userPath(userID, "/task/"+taskID), nil, nil)
}

// Slots fetches the computed slots for the user.
func (c *Client) Slots(ctx context.Context, userID int64) ([]domain.Slot, error) {
	var wss []wire.Slot
	if err := c.do(ctx, "fetch slots", http.MethodGet, userPath(userID, "/slot"), nil, &wss); err != nil {
		return nil, err
	}
	slots := make([]domain.Slot, 0, len(wss))
	for _, ws := range wss {
		s, err := wire.DecodeSlot(ws)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// Queue fetches the user's scheduling queue.
func (c *Client) Queue(ctx context.Context, userID int64) ([]int64, error) {
	var queue []int64
	if err := c.do(ctx, "fetch queue", http.MethodGet, userPath(userID, "/queue"), nil, &queue); err != nil {
		return nil, err
	}
	return queue, nil
}

// PostQueue replaces the user's scheduling queue and returns the stored
// ordering.
func (c *Client) PostQueue(ctx context.Context, userID int64, queue []int64) ([]int64, error) {
	var stored []int64
	if err := c.do(ctx, "post queue", http.MethodPost, userPath(userID, "/queue"), queue, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// EnqueueScheduling asks the server to recompute the user's slots.
func (c *Client) EnqueueScheduling(ctx context.Context, userID int64) error {
	return c.do(ctx, "enqueue scheduling", http.MethodPost, userPath(userID, "/compute_slot_request"), struct{}{}, nil)
}

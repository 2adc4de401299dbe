// Package client is a Go client for the todo API and an in-memory store that
// keeps a session's lists in sync with the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/todo-reminders/domain/todo"
)

// SessionHeader carries the session tag on every request.
const SessionHeader = "x-session-id"

// ErrNoSession is returned without contacting the server when no session tag is available.
var ErrNoSession = errors.New("no session tag available")

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// SessionSource supplies the session tag. *session.Provider satisfies it.
type SessionSource interface {
	SessionID() string
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Client is a thin JSON client for the todo API.
type Client struct {
	baseURL string
	session SessionSource
	http    Doer
}

// NewClient creates a client for the server at baseURL. A nil doer uses an
// http.Client with a 30s timeout.
func NewClient(baseURL string, session SessionSource, doer Doer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		http:    doer,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	tag := ""
	if c.session != nil {
		tag = c.session.SessionID()
	}
	if tag == "" {
		return ErrNoSession
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(SessionHeader, tag)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decoding response of %s %s: %w", method, path, err)
	}
	return nil
}

// ListLists fetches the session's lists. archived filters on the server; nil returns all.
func (c *Client) ListLists(ctx context.Context, archived *bool) ([]todo.TodoList, error) {
	path := "/api/todo-lists"
	if archived != nil {
		path += "?" + url.Values{"archived": {strconv.FormatBool(*archived)}}.Encode()
	}
	var lists []todo.TodoList
	if err := c.do(ctx, http.MethodGet, path, nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateList creates a list.
func (c *Client) CreateList(ctx context.Context, in todo.CreateListInput) (*todo.TodoList, error) {
	var list todo.TodoList
	if err := c.do(ctx, http.MethodPost, "/api/todo-lists", in, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetList fetches one list with its items.
func (c *Client) GetList(ctx context.Context, id string) (*todo.TodoList, error) {
	var list todo.TodoList
	if err := c.do(ctx, http.MethodGet, "/api/todo-lists/"+url.PathEscape(id), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateList patches a list.
func (c *Client) UpdateList(ctx context.Context, id string, in todo.UpdateListInput) (*todo.TodoList, error) {
	var list todo.TodoList
	if err := c.do(ctx, http.MethodPatch, "/api/todo-lists/"+url.PathEscape(id), in, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteList deletes a list.
func (c *Client) DeleteList(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todo-lists/"+url.PathEscape(id), nil, nil)
}

// CreateItem adds an item to a list.
func (c *Client) CreateItem(ctx context.Context, in todo.CreateItemInput) (*todo.TodoItem, error) {
	var item todo.TodoItem
	if err := c.do(ctx, http.MethodPost, "/api/todo-items", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItem fetches one item with its reminders.
func (c *Client) GetItem(ctx context.Context, id string) (*todo.TodoItem, error) {
	var item todo.TodoItem
	if err := c.do(ctx, http.MethodGet, "/api/todo-items/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem patches an item.
func (c *Client) UpdateItem(ctx context.Context, id string, in todo.UpdateItemInput) (*todo.TodoItem, error) {
	var item todo.TodoItem
	if err := c.do(ctx, http.MethodPatch, "/api/todo-items/"+url.PathEscape(id), in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem deletes an item.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todo-items/"+url.PathEscape(id), nil, nil)
}

// ListReminders fetches every reminder of the session.
func (c *Client) ListReminders(ctx context.Context) ([]todo.Reminder, error) {
	var reminders []todo.Reminder
	if err := c.do(ctx, http.MethodGet, "/api/reminders", nil, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// CreateReminder schedules a reminder.
func (c *Client) CreateReminder(ctx context.Context, in todo.CreateReminderInput) (*todo.Reminder, error) {
	var reminder todo.Reminder
	if err := c.do(ctx, http.MethodPost, "/api/reminders", in, &reminder); err != nil {
		return nil, err
	}
	return &reminder, nil
}

// GetReminder fetches one reminder with its item.
func (c *Client) GetReminder(ctx context.Context, id string) (*todo.Reminder, error) {
	var reminder todo.Reminder
	if err := c.do(ctx, http.MethodGet, "/api/reminders/"+url.PathEscape(id), nil, &reminder); err != nil {
		return nil, err
	}
	return &reminder, nil
}

// UpdateReminder reschedules a reminder.
func (c *Client) UpdateReminder(ctx context.Context, id string, in todo.UpdateReminderInput) (*todo.Reminder, error) {
	var reminder todo.Reminder
	if err := c.do(ctx, http.MethodPatch, "/api/reminders/"+url.PathEscape(id), in, &reminder); err != nil {
		return nil, err
	}
	return &reminder, nil
}

// DeleteReminder deletes a reminder.
func (c *Client) DeleteReminder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/reminders/"+url.PathEscape(id), nil, nil)
}

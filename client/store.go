package client

import (
	"context"
	"sync"
	"time"

	"github.com/example/todo-reminders/domain/todo"
)

// Messages surfaced by Store.Err after a failed action.
const (
	MsgLoadFailed           = "Error loading todo lists. Please try again."
	MsgCreateListFailed     = "Error creating todo list. Please try again."
	MsgUpdateListFailed     = "Error updating todo list. Please try again."
	MsgDeleteListFailed     = "Error deleting todo list. Please try again."
	MsgCreateItemFailed     = "Error creating todo item. Please try again."
	MsgUpdateItemFailed     = "Error updating todo item. Please try again."
	MsgDeleteItemFailed     = "Error deleting todo item. Please try again."
	MsgCreateReminderFailed = "Error creating reminder. Please try again."
	MsgUpdateReminderFailed = "Error updating reminder. Please try again."
	MsgDeleteReminderFailed = "Error deleting reminder. Please try again."
)

// Store mirrors the session's lists in memory. Each successful mutation is
// followed by a full Refresh; local state is never patched from mutation results.
type Store struct {
	client *Client

	mu      sync.RWMutex
	lists   []todo.TodoList
	loading bool
	err     string
}

// NewStore creates an empty store.
func NewStore(c *Client) *Store {
	return &Store{client: c}
}

// Refresh replaces the in-memory lists with the server's. Overlapping calls are
// not coordinated; whichever response resolves last wins.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	lists, err := s.client.ListLists(ctx, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = MsgLoadFailed
		return err
	}
	s.lists = lists
	s.err = ""
	return nil
}

// mutate runs op and refreshes on success. On failure the action's message is
// recorded and the in-memory lists are left as they were.
func (s *Store) mutate(ctx context.Context, failMsg string, op func(context.Context) error) error {
	if err := op(ctx); err != nil {
		s.mu.Lock()
		s.err = failMsg
		s.mu.Unlock()
		return err
	}
	return s.Refresh(ctx)
}

// CreateList creates a list.
func (s *Store) CreateList(ctx context.Context, title string, description *string) error {
	return s.mutate(ctx, MsgCreateListFailed, func(ctx context.Context) error {
		_, err := s.client.CreateList(ctx, todo.CreateListInput{Title: title, Description: description})
		return err
	})
}

// ToggleArchive flips the archived flag of a list held in memory. Unknown ids are ignored.
func (s *Store) ToggleArchive(ctx context.Context, id string) error {
	list, ok := s.find(id)
	if !ok {
		return nil
	}
	archived := !list.IsArchived
	return s.UpdateList(ctx, id, todo.UpdateListInput{IsArchived: &archived})
}

// UpdateList patches a list.
func (s *Store) UpdateList(ctx context.Context, id string, in todo.UpdateListInput) error {
	return s.mutate(ctx, MsgUpdateListFailed, func(ctx context.Context) error {
		_, err := s.client.UpdateList(ctx, id, in)
		return err
	})
}

// DeleteList deletes a list.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	return s.mutate(ctx, MsgDeleteListFailed, func(ctx context.Context) error {
		return s.client.DeleteList(ctx, id)
	})
}

// AddItem adds an item to a list.
func (s *Store) AddItem(ctx context.Context, listID, title string, description *string, due *time.Time) error {
	return s.mutate(ctx, MsgCreateItemFailed, func(ctx context.Context) error {
		_, err := s.client.CreateItem(ctx, todo.CreateItemInput{
			Title:       title,
			Description: description,
			DueDate:     due,
			TodoListID:  listID,
		})
		return err
	})
}

// UpdateItem patches an item.
func (s *Store) UpdateItem(ctx context.Context, id string, in todo.UpdateItemInput) error {
	return s.mutate(ctx, MsgUpdateItemFailed, func(ctx context.Context) error {
		_, err := s.client.UpdateItem(ctx, id, in)
		return err
	})
}

// DeleteItem deletes an item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return s.mutate(ctx, MsgDeleteItemFailed, func(ctx context.Context) error {
		return s.client.DeleteItem(ctx, id)
	})
}

// AddReminder schedules a reminder on an item.
func (s *Store) AddReminder(ctx context.Context, itemID string, at time.Time) error {
	return s.mutate(ctx, MsgCreateReminderFailed, func(ctx context.Context) error {
		_, err := s.client.CreateReminder(ctx, todo.CreateReminderInput{ReminderAt: &at, TodoItemID: itemID})
		return err
	})
}

// UpdateReminder reschedules a reminder.
func (s *Store) UpdateReminder(ctx context.Context, id string, at time.Time) error {
	return s.mutate(ctx, MsgUpdateReminderFailed, func(ctx context.Context) error {
		_, err := s.client.UpdateReminder(ctx, id, todo.UpdateReminderInput{ReminderAt: &at})
		return err
	})
}

// DeleteReminder deletes a reminder.
func (s *Store) DeleteReminder(ctx context.Context, id string) error {
	return s.mutate(ctx, MsgDeleteReminderFailed, func(ctx context.Context) error {
		return s.client.DeleteReminder(ctx, id)
	})
}

func (s *Store) find(id string) (todo.TodoList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lists {
		if l.ID == id {
			return l, true
		}
	}
	return todo.TodoList{}, false
}

// Lists returns a copy of every list held in memory.
func (s *Store) Lists() []todo.TodoList {
	return s.filter(func(todo.TodoList) bool { return true })
}

// Active returns the lists that are not archived. It makes no network call.
func (s *Store) Active() []todo.TodoList {
	return s.filter(func(l todo.TodoList) bool { return !l.IsArchived })
}

// Archived returns the archived lists. It makes no network call.
func (s *Store) Archived() []todo.TodoList {
	return s.filter(func(l todo.TodoList) bool { return l.IsArchived })
}

func (s *Store) filter(keep func(todo.TodoList) bool) []todo.TodoList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]todo.TodoList, 0, len(s.lists))
	for _, l := range s.lists {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// Loading reports whether a Refresh is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the most recent failure, or "" after a successful Refresh.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Package todo provides the session-scoped todo service and its mono module.
package todo

import (
	"context"
	"errors"

	"github.com/example/todo-reminders/domain/todo"
	"github.com/example/todo-reminders/internal/logging"
	"github.com/example/todo-reminders/internal/validation"
	"github.com/example/todo-reminders/modules/cache"
	"github.com/rs/zerolog"
)

// Service validates requests, checks session ownership and delegates to the
// repositories. Reminder writes are mirrored to the cache.
type Service struct {
	lists     *todo.ListRepository
	items     *todo.ItemRepository
	reminders *todo.ReminderRepository
	mirror    *cache.Mirror
	log       zerolog.Logger
}

// NewService creates a new todo service.
func NewService(lists *todo.ListRepository, items *todo.ItemRepository, reminders *todo.ReminderRepository, mirror *cache.Mirror) *Service {
	return &Service{
		lists:     lists,
		items:     items,
		reminders: reminders,
		mirror:    mirror,
		log:       logging.Component("todo"),
	}
}

// authorize loads the list with the given id and checks that session may use it.
// Errors name entity so callers reaching the list through an item or reminder
// report on the record they asked for.
func (s *Service) authorize(ctx context.Context, session, listID string, entity todo.Entity) (*todo.TodoList, error) {
	list, err := s.lists.FindByID(ctx, listID)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return nil, todo.NotFound(entity)
		}
		return nil, err
	}
	if !list.OwnedBy(session) {
		return nil, todo.Forbidden(entity)
	}
	return list, nil
}

// ListLists returns the session's lists, newest first. archived selects
// archived or active lists; nil returns both.
func (s *Service) ListLists(ctx context.Context, session string, archived *bool) ([]todo.TodoList, error) {
	return s.lists.FindMany(ctx, todo.ListFilter{SessionID: session, Archived: archived})
}

// CreateList stores a new list owned by session.
func (s *Service) CreateList(ctx context.Context, session string, in todo.CreateListInput) (*todo.TodoList, error) {
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}

	list := &todo.TodoList{
		Title:       in.Title,
		Description: in.Description,
		SessionID:   session,
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}
	list.Items = []todo.TodoItem{}

	s.log.Info().Str("list_id", list.ID).Msg("todo list created")
	return list, nil
}

// GetList returns one list with its items and their reminders.
func (s *Service) GetList(ctx context.Context, session, id string) (*todo.TodoList, error) {
	list, err := s.lists.FindByID(ctx, id, todo.WithItems())
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return nil, todo.NotFound(todo.EntityList)
		}
		return nil, err
	}
	if !list.OwnedBy(session) {
		return nil, todo.Forbidden(todo.EntityList)
	}
	return list, nil
}

// UpdateList applies the fields present in in.
func (s *Service) UpdateList(ctx context.Context, session, id string, in todo.UpdateListInput) (*todo.TodoList, error) {
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, session, id, todo.EntityList); err != nil {
		return nil, err
	}

	list, err := s.lists.Update(ctx, id, in.Fields())
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return nil, todo.NotFound(todo.EntityList)
		}
		return nil, err
	}
	return list, nil
}

// DeleteList removes a list with all its items and reminders.
func (s *Service) DeleteList(ctx context.Context, session, id string) error {
	if _, err := s.authorize(ctx, session, id, todo.EntityList); err != nil {
		return err
	}

	removed, err := s.lists.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return todo.NotFound(todo.EntityList)
		}
		return err
	}
	s.purge(ctx, removed)

	s.log.Info().Str("list_id", id).Int("reminders", len(removed)).Msg("todo list deleted")
	return nil
}

// CreateItem adds an item to a list owned by session.
func (s *Service) CreateItem(ctx context.Context, session string, in todo.CreateItemInput) (*todo.TodoItem, error) {
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, session, in.TodoListID, todo.EntityList); err != nil {
		return nil, err
	}

	item := &todo.TodoItem{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		TodoListID:  in.TodoListID,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	item.Reminders = []todo.Reminder{}
	return item, nil
}

// GetItem returns one item with its reminders.
func (s *Service) GetItem(ctx context.Context, session, id string) (*todo.TodoItem, error) {
	item, err := s.loadItem(ctx, session, id, todo.WithReminders())
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies the fields present in in.
func (s *Service) UpdateItem(ctx context.Context, session, id string, in todo.UpdateItemInput) (*todo.TodoItem, error) {
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}
	if _, err := s.loadItem(ctx, session, id); err != nil {
		return nil, err
	}

	item, err := s.items.Update(ctx, id, in.Fields())
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return nil, todo.NotFound(todo.EntityItem)
		}
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item and its reminders.
func (s *Service) DeleteItem(ctx context.Context, session, id string) error {
	if _, err := s.loadItem(ctx, session, id); err != nil {
		return err
	}

	removed, err := s.items.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return todo.NotFound(todo.EntityItem)
		}
		return err
	}
	s.purge(ctx, removed)
	return nil
}

func (s *Service) loadItem(ctx context.Context, session, id string, preloads ...todo.Preload) (*todo.TodoItem, error) {
	item, err := s.items.FindByID(ctx, id, preloads...)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return nil, todo.NotFound(todo.EntityItem)
		}
		return nil, err
	}
	if _, err := s.authorize(ctx, session, item.TodoListID, todo.EntityItem); err != nil {
		return nil, err
	}
	return item, nil
}

// ListReminders returns every reminder on the session's lists, earliest first.
func (s *Service) ListReminders(ctx context.Context, session string) ([]todo.Reminder, error) {
	return s.reminders.FindBySession(ctx, session)
}

// CreateReminder schedules a reminder on an item owned by session and mirrors it.
func (s *Service) CreateReminder(ctx context.Context, session string, in todo.CreateReminderInput) (*todo.Reminder, error) {
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}
	item, err := s.loadItem(ctx, session, in.TodoItemID)
	if err != nil {
		return nil, err
	}

	reminder := &todo.Reminder{
		ReminderAt: *in.ReminderAt,
		TodoItemID: item.ID,
	}
	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}
	reminder.TodoItem = item

	s.mirrorPut(ctx, reminder)
	s.log.Info().Str("reminder_id", reminder.ID).Time("reminder_at", reminder.ReminderAt).Msg("reminder created")
	return reminder, nil
}

// GetReminder returns one reminder with its item.
func (s *Service) GetReminder(ctx context.Context, session, id string) (*todo.Reminder, error) {
	return s.loadReminder(ctx, session, id)
}

// UpdateReminder reschedules a reminder and refreshes its mirror.
func (s *Service) UpdateReminder(ctx context.Context, session, id string, in todo.UpdateReminderInput) (*todo.Reminder, error) {
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}
	if _, err := s.loadReminder(ctx, session, id); err != nil {
		return nil, err
	}

	reminder, err := s.reminders.Update(ctx, id, in.Fields())
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return nil, todo.NotFound(todo.EntityReminder)
		}
		return nil, err
	}

	s.mirrorPut(ctx, reminder)
	return reminder, nil
}

// DeleteReminder removes a reminder and its cache key. The key is removed even
// when the store delete fails, and also when the reminder no longer exists.
func (s *Service) DeleteReminder(ctx context.Context, session, id string) error {
	if _, err := s.loadReminder(ctx, session, id); err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			s.mirrorRemove(ctx, id)
		}
		return err
	}

	err := s.reminders.Delete(ctx, id)
	s.mirrorRemove(ctx, id)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return todo.NotFound(todo.EntityReminder)
		}
		return err
	}
	return nil
}

func (s *Service) loadReminder(ctx context.Context, session, id string) (*todo.Reminder, error) {
	reminder, err := s.reminders.FindByID(ctx, id, todo.WithItem())
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return nil, todo.NotFound(todo.EntityReminder)
		}
		return nil, err
	}
	if reminder.TodoItem == nil {
		return nil, todo.NotFound(todo.EntityReminder)
	}
	if _, err := s.authorize(ctx, session, reminder.TodoItem.TodoListID, todo.EntityReminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// Cache writes after a committed store write are best effort.

func (s *Service) mirrorPut(ctx context.Context, r *todo.Reminder) {
	if err := s.mirror.Put(ctx, r); err != nil {
		s.log.Warn().Err(err).Str("reminder_id", r.ID).Msg("failed to mirror reminder")
	}
}

func (s *Service) mirrorRemove(ctx context.Context, id string) {
	if err := s.mirror.Remove(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("reminder_id", id).Msg("failed to remove reminder from cache")
	}
}

func (s *Service) purge(ctx context.Context, reminderIDs []string) {
	for _, id := range reminderIDs {
		s.mirrorRemove(ctx, id)
	}
}

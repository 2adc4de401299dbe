package todo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Preload is an eager-loading option applied to Find calls.
type Preload func(*gorm.DB) *gorm.DB

// WithItems attaches a list's items, newest first, each with its reminders.
func WithItems() Preload {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Preload("Items", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at DESC")
			}).
			Preload("Items.Reminders", func(db *gorm.DB) *gorm.DB {
				return db.Order("reminder_at ASC")
			})
	}
}

// WithReminders attaches an item's reminders, earliest first.
func WithReminders() Preload {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload("Reminders", func(db *gorm.DB) *gorm.DB {
			return db.Order("reminder_at ASC")
		})
	}
}

// WithList attaches an item's parent list.
func WithList() Preload {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload("TodoList")
	}
}

// WithItem attaches a reminder's parent item.
func WithItem() Preload {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload("TodoItem")
	}
}

// Migrate runs database migrations for all todo tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&TodoList{}, &TodoItem{}, &Reminder{})
}

func applyPreloads(db *gorm.DB, preloads []Preload) *gorm.DB {
	for _, p := range preloads {
		db = p(db)
	}
	return db
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ListFilter narrows FindMany results for lists.
type ListFilter struct {
	SessionID string
	// Archived selects archived (true) or active (false) lists; nil returns both.
	Archived *bool
}

// ListRepository provides database operations for todo lists.
type ListRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new list repository.
func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Create inserts a new list.
func (r *ListRepository) Create(ctx context.Context, list *TodoList) error {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return fmt.Errorf("failed to create todo list: %w", err)
	}
	return nil
}

// FindByID retrieves a list by its ID.
func (r *ListRepository) FindByID(ctx context.Context, id string, preloads ...Preload) (*TodoList, error) {
	var list TodoList
	q := applyPreloads(r.db.WithContext(ctx), preloads)
	if err := q.First(&list, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find todo list: %w", err)
	}
	return &list, nil
}

// FindMany returns the session's lists, newest first, with items and reminders attached.
func (r *ListRepository) FindMany(ctx context.Context, filter ListFilter) ([]TodoList, error) {
	lists := make([]TodoList, 0)
	q := WithItems()(r.db.WithContext(ctx)).
		Where("session_id = ?", filter.SessionID)
	if filter.Archived != nil {
		q = q.Where("is_archived = ?", *filter.Archived)
	}
	if err := q.Order("created_at DESC").Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("failed to list todo lists: %w", err)
	}
	return lists, nil
}

// Update applies exactly the given columns and returns the stored row with
// its items and reminders, shaped like FindByID with WithItems.
func (r *ListRepository) Update(ctx context.Context, id string, fields map[string]any) (*TodoList, error) {
	if len(fields) > 0 {
		result := r.db.WithContext(ctx).Model(&TodoList{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update todo list: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	list, err := r.FindByID(ctx, id, WithItems())
	if err != nil {
		return nil, err
	}
	if list.Items == nil {
		list.Items = []TodoItem{}
	}
	return list, nil
}

// Delete removes a list together with its items and their reminders,
// children first. It returns the IDs of the reminders that were removed.
func (r *ListRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var reminderIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itemIDs []string
		if err := tx.Model(&TodoItem{}).Where("todo_list_id = ?", id).Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			ids, err := deleteRemindersOf(tx, itemIDs)
			if err != nil {
				return err
			}
			if err := tx.Where("todo_list_id = ?", id).Delete(&TodoItem{}).Error; err != nil {
				return err
			}
			reminderIDs = ids
		}

		result := tx.Delete(&TodoList{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete todo list: %w", err)
	}
	return reminderIDs, nil
}

func deleteRemindersOf(tx *gorm.DB, itemIDs []string) ([]string, error) {
	var ids []string
	if err := tx.Model(&Reminder{}).Where("todo_item_id IN ?", itemIDs).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := tx.Where("todo_item_id IN ?", itemIDs).Delete(&Reminder{}).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

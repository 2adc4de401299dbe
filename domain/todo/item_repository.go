package todo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ItemRepository provides database operations for todo items.
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new item.
func (r *ItemRepository) Create(ctx context.Context, item *TodoItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create todo item: %w", err)
	}
	return nil
}

// FindByID retrieves an item by its ID.
func (r *ItemRepository) FindByID(ctx context.Context, id string, preloads ...Preload) (*TodoItem, error) {
	var item TodoItem
	q := applyPreloads(r.db.WithContext(ctx), preloads)
	if err := q.First(&item, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find todo item: %w", err)
	}
	return &item, nil
}

// Update applies exactly the given columns and returns the stored row.
func (r *ItemRepository) Update(ctx context.Context, id string, fields map[string]any) (*TodoItem, error) {
	if len(fields) > 0 {
		result := r.db.WithContext(ctx).Model(&TodoItem{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update todo item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	item, err := r.FindByID(ctx, id, WithReminders())
	if err != nil {
		return nil, err
	}
	if item.Reminders == nil {
		item.Reminders = []Reminder{}
	}
	return item, nil
}

// Delete removes an item's reminders and then the item, returning the removed reminder IDs.
func (r *ItemRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var reminderIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := deleteRemindersOf(tx, []string{id})
		if err != nil {
			return err
		}
		result := tx.Delete(&TodoItem{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		reminderIDs = ids
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete todo item: %w", err)
	}
	return reminderIDs, nil
}

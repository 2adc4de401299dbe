package todo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ReminderRepository provides database operations for reminders.
type ReminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new reminder repository.
func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create inserts a new reminder.
func (r *ReminderRepository) Create(ctx context.Context, reminder *Reminder) error {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

// FindByID retrieves a reminder by its ID.
func (r *ReminderRepository) FindByID(ctx context.Context, id string, preloads ...Preload) (*Reminder, error) {
	var reminder Reminder
	q := applyPreloads(r.db.WithContext(ctx), preloads)
	if err := q.First(&reminder, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reminder: %w", err)
	}
	return &reminder, nil
}

// FindBySession returns every reminder whose list belongs to session,
// earliest first, with the parent item attached.
func (r *ReminderRepository) FindBySession(ctx context.Context, session string) ([]Reminder, error) {
	reminders := make([]Reminder, 0)
	err := r.db.WithContext(ctx).
		Select("reminders.*").
		Joins("JOIN todo_items ON todo_items.id = reminders.todo_item_id").
		Joins("JOIN todo_lists ON todo_lists.id = todo_items.todo_list_id").
		Where("todo_lists.session_id = ?", session).
		Preload("TodoItem").
		Order("reminders.reminder_at ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// Update applies exactly the given columns and returns the stored row with its item.
func (r *ReminderRepository) Update(ctx context.Context, id string, fields map[string]any) (*Reminder, error) {
	if len(fields) > 0 {
		result := r.db.WithContext(ctx).Model(&Reminder{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update reminder: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.FindByID(ctx, id, WithItem())
}

// Delete removes a reminder by ID.
func (r *ReminderRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&Reminder{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete reminder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}


// Package todo provides the domain entities and GORM repositories for todo
// lists, their items and item reminders.
package todo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TodoList is a named collection of items owned by one browser session.
type TodoList struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"size:1000" json:"description,omitempty"`
	IsArchived  bool       `gorm:"not null;default:false" json:"isArchived"`
	SessionID   string     `gorm:"size:64;index" json:"sessionId"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Items       []TodoItem `gorm:"foreignKey:TodoListID" json:"items"`
}

// TableName returns the table name for TodoList.
func (TodoList) TableName() string {
	return "todo_lists"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (l *TodoList) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// OwnedBy reports whether session may read or modify the list. Lists stored
// without a session tag are unowned.
func (l *TodoList) OwnedBy(session string) bool {
	return l.SessionID == "" || l.SessionID == session
}

// TodoItem is a single task belonging to one list.
type TodoItem struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"size:1000" json:"description,omitempty"`
	IsCompleted bool       `gorm:"not null;default:false" json:"isCompleted"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	TodoListID  string     `gorm:"size:36;not null;index" json:"todoListId"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Reminders   []Reminder `gorm:"foreignKey:TodoItemID" json:"reminders"`
	TodoList    *TodoList  `gorm:"foreignKey:TodoListID" json:"todoList,omitempty"`
}

// TableName returns the table name for TodoItem.
func (TodoItem) TableName() string {
	return "todo_items"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (i *TodoItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// Reminder is a scheduled notification time attached to one item.
type Reminder struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ReminderAt time.Time `gorm:"not null;index" json:"reminderAt"`
	TodoItemID string    `gorm:"size:36;not null;index" json:"todoItemId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	TodoItem   *TodoItem `gorm:"foreignKey:TodoItemID" json:"todoItem,omitempty"`
}

// TableName returns the table name for Reminder.
func (Reminder) TableName() string {
	return "reminders"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (r *Reminder) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

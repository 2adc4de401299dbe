package todo

import "time"

// CreateListInput is the body accepted when creating a list.
type CreateListInput struct {
	Title       string  `json:"title" validate:"required" label:"Title"`
	Description *string `json:"description"`
}

// UpdateListInput carries the list fields a PATCH may change. Nil or unset
// fields are left alone; a null description clears it.
type UpdateListInput struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=1" label:"Title"`
	Description Optional[string] `json:"description,omitzero"`
	IsArchived  *bool            `json:"isArchived,omitempty"`
}

// Fields returns the columns present in the input.
func (in UpdateListInput) Fields() map[string]any {
	fields := make(map[string]any)
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description.Set {
		fields["description"] = in.Description.column()
	}
	if in.IsArchived != nil {
		fields["is_archived"] = *in.IsArchived
	}
	return fields
}

// CreateItemInput is the body accepted when adding an item to a list.
type CreateItemInput struct {
	Title       string     `json:"title" validate:"required" label:"Title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	TodoListID  string     `json:"todoListId" validate:"required" label:"todoListId"`
}

// UpdateItemInput carries the item fields a PATCH may change. Description and
// DueDate accept null to clear them.
type UpdateItemInput struct {
	Title       *string             `json:"title,omitempty" validate:"omitempty,min=1" label:"Title"`
	Description Optional[string]    `json:"description,omitzero"`
	IsCompleted *bool               `json:"isCompleted,omitempty"`
	DueDate     Optional[time.Time] `json:"dueDate,omitzero"`
}

// Fields returns the columns present in the input.
func (in UpdateItemInput) Fields() map[string]any {
	fields := make(map[string]any)
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description.Set {
		fields["description"] = in.Description.column()
	}
	if in.IsCompleted != nil {
		fields["is_completed"] = *in.IsCompleted
	}
	if in.DueDate.Set {
		fields["due_date"] = in.DueDate.column()
	}
	return fields
}

// CreateReminderInput is the body accepted when scheduling a reminder.
type CreateReminderInput struct {
	ReminderAt *time.Time `json:"reminderAt" validate:"required" label:"Reminder time"`
	TodoItemID string     `json:"todoItemId" validate:"required" label:"todoItemId"`
}

// UpdateReminderInput carries the reminder fields a PATCH may change.
type UpdateReminderInput struct {
	ReminderAt *time.Time `json:"reminderAt,omitempty"`
}

// Fields returns the columns present in the input.
func (in UpdateReminderInput) Fields() map[string]any {
	fields := make(map[string]any)
	if in.ReminderAt != nil {
		fields["reminder_at"] = *in.ReminderAt
	}
	return fields
}

package validation

import (
	"errors"
	"testing"
	"time"
)

type listInput struct {
	Title string `json:"title" validate:"required" label:"Title"`
}

type patchInput struct {
	Title *string `json:"title" validate:"omitempty,min=1" label:"Title"`
}

type reminderInput struct {
	ReminderAt *time.Time `json:"reminderAt" validate:"required" label:"Reminder time"`
	TodoItemID string     `json:"todoItemId" validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	empty := ""
	filled := "x"
	now := time.Now()

	tests := []struct {
		name    string
		input   any
		wantErr string
	}{
		{name: "valid list", input: &listInput{Title: "Groceries"}},
		{name: "missing title", input: &listInput{}, wantErr: "Title is required"},
		{name: "patch without title", input: &patchInput{}},
		{name: "patch with title", input: &patchInput{Title: &filled}},
		{name: "patch with empty title", input: &patchInput{Title: &empty}, wantErr: "Title must not be empty"},
		{name: "valid reminder", input: &reminderInput{ReminderAt: &now, TodoItemID: "i"}},
		{
			name:    "reminder missing everything",
			input:   &reminderInput{},
			wantErr: "Reminder time is required; todoItemId is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateStruct() expected error %q, got nil", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("ValidateStruct() error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateStruct_FieldDetails(t *testing.T) {
	err := ValidateStruct(&listInput{})
	if err == nil {
		t.Fatal("expected an error")
	}
	fields := err.Errors()
	if len(fields) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fields))
	}
	if fields[0].Field() != "Title" || fields[0].Tag() != "required" {
		t.Errorf("unexpected field error: field=%q tag=%q", fields[0].Field(), fields[0].Tag())
	}
}

func TestValidate_ReturnsTypedError(t *testing.T) {
	if err := Validate(&listInput{Title: "ok"}); err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}

	err := Validate(&listInput{})
	var ve *RequestValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validate() error should be *RequestValidationError, got %T", err)
	}
}

func TestNewRequestValidationError(t *testing.T) {
	err := NewRequestValidationError("archived", "archived must be true or false")
	if err.Error() != "archived must be true or false" {
		t.Errorf("Error() = %q", err.Error())
	}
}

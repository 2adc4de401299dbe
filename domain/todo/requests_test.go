package todo

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUpdateListInput_Fields(t *testing.T) {
	title := "Renamed"
	archived := true

	tests := []struct {
		name  string
		input UpdateListInput
		want  map[string]any
	}{
		{name: "empty", input: UpdateListInput{}, want: map[string]any{}},
		{name: "title only", input: UpdateListInput{Title: &title}, want: map[string]any{"title": "Renamed"}},
		{
			name:  "title and archive flag",
			input: UpdateListInput{Title: &title, IsArchived: &archived},
			want:  map[string]any{"title": "Renamed", "is_archived": true},
		},
		{
			name:  "null description clears it",
			input: UpdateListInput{Description: Null[string]()},
			want:  map[string]any{"description": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.Fields()
			if len(got) != len(tt.want) {
				t.Fatalf("Fields() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if gv, ok := got[k]; !ok || gv != v {
					t.Errorf("Fields()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestUpdateItemInput_Fields(t *testing.T) {
	done := false
	due := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	got := UpdateItemInput{IsCompleted: &done, DueDate: Some(due)}.Fields()
	if len(got) != 2 {
		t.Fatalf("expected 2 fields, got %v", got)
	}
	if got["is_completed"] != false {
		t.Errorf("is_completed = %v, want false", got["is_completed"])
	}
	if got["due_date"] != due {
		t.Errorf("due_date = %v, want %v", got["due_date"], due)
	}
}

func TestUpdateItemInput_DecodeNulls(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{name: "absent fields", body: `{"isCompleted":true}`, want: map[string]any{"is_completed": true}},
		{name: "null due date", body: `{"dueDate":null}`, want: map[string]any{"due_date": nil}},
		{name: "null description", body: `{"description":null}`, want: map[string]any{"description": nil}},
		{name: "description value", body: `{"description":"soon"}`, want: map[string]any{"description": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in UpdateItemInput
			if err := json.Unmarshal([]byte(tt.body), &in); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			got := in.Fields()
			if len(got) != len(tt.want) {
				t.Fatalf("Fields() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if gv, ok := got[k]; !ok || gv != v {
					t.Errorf("Fields()[%q] = %v, want %v", k, gv, v)
				}
			}
		})
	}
}

func TestUpdateItemInput_EncodeOmitsUnset(t *testing.T) {
	done := true
	raw, err := json.Marshal(UpdateItemInput{IsCompleted: &done, DueDate: Null[time.Time]()})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(raw), `{"isCompleted":true,"dueDate":null}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestUpdateReminderInput_Fields(t *testing.T) {
	if got := (UpdateReminderInput{}).Fields(); len(got) != 0 {
		t.Errorf("expected no fields, got %v", got)
	}

	at := time.Now()
	got := UpdateReminderInput{ReminderAt: &at}.Fields()
	if got["reminder_at"] != at {
		t.Errorf("reminder_at = %v, want %v", got["reminder_at"], at)
	}
}

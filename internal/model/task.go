package model

import (
	"errors"
	"strings"
)

// Task is the domain model for a tracked task.
// ID stays empty until a store persists the task.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Completed   bool
}

// NewTask builds an unsaved task. Completed always starts false.
func NewTask(title, description string, priority Priority) Task {
	return Task{
		Title:       title,
		Description: description,
		Priority:    priority,
	}
}

// Persisted reports whether a store has assigned an id.
func (t Task) Persisted() bool { return t.ID != "" }

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrPriorityRequired = errors.New("priority is required")
)

// Validate checks the inputs a user must fill before a task reaches a store.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(string(t.Priority)) == "" {
		return ErrPriorityRequired
	}
	return nil
}

// Fields carries a partial edit. Blank values mean "leave unchanged".
type Fields struct {
	Title       string
	Description string
	Priority    Priority
}

// Empty reports whether no field would be written.
func (f Fields) Empty() bool {
	return blank(f.Title) && blank(f.Description) && blank(string(f.Priority))
}

// Trim strips surrounding whitespace from every field.
func (f Fields) Trim() Fields {
	return Fields{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Priority:    Priority(strings.TrimSpace(string(f.Priority))),
	}
}

// Set returns the non-blank fields keyed by Field.
func (f Fields) Set() map[Field]string {
	out := make(map[Field]string, 3)
	if !blank(f.Title) {
		out[FieldTitle] = f.Title
	}
	if !blank(f.Description) {
		out[FieldDescription] = f.Description
	}
	if !blank(string(f.Priority)) {
		out[FieldPriority] = string(f.Priority)
	}
	return out
}

// Apply copies the non-blank fields onto t.
func (f Fields) Apply(t *Task) {
	for field, v := range f.Set() {
		switch field {
		case FieldTitle:
			t.Title = v
		case FieldDescription:
			t.Description = v
		case FieldPriority:
			t.Priority = Priority(v)
		}
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Field names a persisted attribute of a Task.
type Field string

const (
	FieldID          Field = "id"
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldPriority    Field = "priority"
	FieldCompleted   Field = "completed"
)

// Fields in the order they are shown and stored.
var AllFields = []Field{FieldID, FieldTitle, FieldDescription, FieldPriority, FieldCompleted}
